package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rubiojr/prixcarburant/internal/carburant"
	"github.com/rubiojr/prixcarburant/pkg/api"
	"github.com/urfave/cli/v2"
)

func checkStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "check-status",
		Usage: "Check for stations with outdated fuel prices",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "days",
				Usage: "Report prices not updated for more than this many days",
				Value: 7,
			},
		},
		Action: checkStatusAction,
	}
}

func checkStatusAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	stations, err := loadStations(context.Background(), cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	days := c.Int("days")
	fmt.Printf("Checking %d stations for prices older than %d days\n", len(stations), days)
	return writeStale(os.Stdout, staleFuels(stations, days, time.Now()))
}

type staleFuel struct {
	Station *carburant.Station
	Fuel    api.FuelType
	Days    int
}

// staleFuels lists the fuels whose last update is more than days old, in
// station id then fuel order.
func staleFuels(stations map[int64]*carburant.Station, days int, now time.Time) []staleFuel {
	var stale []staleFuel
	for _, s := range sortedStations(stations) {
		for _, fuel := range api.FuelTypes {
			fp, ok := s.Fuels[fuel]
			if !ok {
				continue
			}
			age, err := carburant.DaysSinceUpdate(fp.UpdatedDate, now)
			if err != nil || age <= days {
				continue
			}
			stale = append(stale, staleFuel{Station: s, Fuel: fuel, Days: age})
		}
	}
	return stale
}

func writeStale(w io.Writer, stale []staleFuel) error {
	if len(stale) == 0 {
		_, err := fmt.Fprintln(w, "No outdated prices.")
		return err
	}
	fmt.Fprintln(w, "Outdated prices:")
	for _, s := range stale {
		if _, err := fmt.Fprintf(w, "%d %s: %s, %d days\n", s.Station.ID, s.Station.DisplayName(), s.Fuel, s.Days); err != nil {
			return err
		}
	}
	return nil
}
