package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rubiojr/prixcarburant/internal/carburant"
	"github.com/rubiojr/prixcarburant/pkg/api"
	"github.com/tkrajina/gpxgo/gpx"
	"github.com/urfave/cli/v2"
)

func exportGPXCommand() *cli.Command {
	return &cli.Command{
		Name:  "export-gpx",
		Usage: "Export the followed stations as GPX waypoints",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file, stdout when empty",
			},
		},
		Action: exportGPXAction,
	}
}

func exportGPXAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	stations, err := loadStations(context.Background(), cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	data, err := stationsGPX(stations).ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("error encoding GPX: %w", err)
	}

	if out := c.String("output"); out != "" {
		return os.WriteFile(out, data, 0o644)
	}
	_, err = os.Stdout.Write(data)
	return err
}

// stationsGPX returns one waypoint per station, described by its prices.
func stationsGPX(stations map[int64]*carburant.Station) *gpx.GPX {
	g := &gpx.GPX{
		Creator: "prixcarburant",
		Name:    "Stations",
	}
	for _, s := range sortedStations(stations) {
		wpt := gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  s.Latitude,
				Longitude: s.Longitude,
			},
			Name:        s.DisplayName(),
			Comment:     s.FullAddress(),
			Description: pricesDescription(s),
			Type:        s.Brand,
		}
		g.Waypoints = append(g.Waypoints, wpt)
	}
	return g
}

func pricesDescription(s *carburant.Station) string {
	var parts []string
	for _, fuel := range api.FuelTypes {
		if fp, ok := s.Fuels[fuel]; ok {
			parts = append(parts, fmt.Sprintf("%s %.3f €", fuel, fp.Price))
		}
	}
	return strings.Join(parts, ", ")
}
