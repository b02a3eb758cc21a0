package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/prixcarburant/internal/storage"
	"github.com/rubiojr/prixcarburant/pkg/api"
	"github.com/urfave/cli/v2"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Print the recorded prices of a station",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:     "station",
				Aliases:  []string{"s"},
				Usage:    "Station id",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "fuel",
				Aliases:  []string{"f"},
				Usage:    "Fuel type",
				Required: true,
			},
		},
		Action: historyAction,
	}
}

func historyAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	fuel, err := api.ParseFuelType(c.String("fuel"))
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := storage.NewStorage(ctx, cfg.DBPath, newLogger(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	history, err := store.PriceHistory(ctx, c.Int64("station"), fuel)
	if err != nil {
		return err
	}
	return writeHistory(os.Stdout, c.Int64("station"), fuel, history)
}

func writeHistory(w io.Writer, id int64, fuel api.FuelType, history []storage.PricePoint) error {
	if len(history) == 0 {
		_, err := fmt.Fprintf(w, "No %s prices recorded for station %d.\n", fuel, id)
		return err
	}
	fmt.Fprintf(w, "%s prices for station %d:\n", fuel, id)
	for _, p := range history {
		if _, err := fmt.Fprintf(w, "%s  %.3f €\n", p.UpdatedDate, p.Price); err != nil {
			return err
		}
	}
	return nil
}
