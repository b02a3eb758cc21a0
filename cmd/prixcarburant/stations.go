package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/rubiojr/prixcarburant/internal/carburant"
	"github.com/rubiojr/prixcarburant/pkg/api"
	"github.com/urfave/cli/v2"
)

func stationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stations",
		Usage: "Load the followed stations and print their prices",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print JSON instead of text",
			},
		},
		Action: stationsAction,
	}
}

func stationsAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	stations, err := loadStations(context.Background(), cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sortedStations(stations))
	}
	return writeStations(os.Stdout, stations)
}

func sortedStations(stations map[int64]*carburant.Station) []*carburant.Station {
	out := make([]*carburant.Station, 0, len(stations))
	for _, id := range slices.Sorted(maps.Keys(stations)) {
		out = append(out, stations[id])
	}
	return out
}

func writeStations(w io.Writer, stations map[int64]*carburant.Station) error {
	if len(stations) == 0 {
		_, err := fmt.Fprintln(w, "No stations found.")
		return err
	}

	for i, s := range sortedStations(stations) {
		fmt.Fprintf(w, "%d. %s (%d)\n", i+1, s.DisplayName(), s.ID)
		if s.Brand != "" {
			fmt.Fprintf(w, "   Brand: %s\n", s.Brand)
		}
		fmt.Fprintf(w, "   Address: %s\n", s.FullAddress())
		if s.Distance != nil {
			fmt.Fprintf(w, "   Distance: %.2f km\n", *s.Distance)
		}
		for _, fuel := range api.FuelTypes {
			fp, ok := s.Fuels[fuel]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "   %s: %.3f € (%s)\n", fuel, fp.Price, fp.UpdatedDate)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Found %d stations\n", len(stations))
	return err
}
