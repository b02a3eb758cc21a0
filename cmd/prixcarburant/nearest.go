package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rubiojr/prixcarburant/internal/carburant"
	"github.com/rubiojr/prixcarburant/internal/geocode"
	"github.com/rubiojr/prixcarburant/internal/translations"
	"github.com/rubiojr/prixcarburant/pkg/api"
	"github.com/urfave/cli/v2"
)

func nearestCommand() *cli.Command {
	return &cli.Command{
		Name:  "nearest",
		Usage: "List the cheapest stations around a location for a fuel",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "fuel",
				Aliases:  []string{"f"},
				Usage:    "Fuel type (E10, E85, SP95, SP98, Gazole, GPLc)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "location",
				Usage: "Location to search",
			},
			&cli.Float64Flag{
				Name:  "lat",
				Usage: "Latitude of the location",
			},
			&cli.Float64Flag{
				Name:  "lon",
				Usage: "Longitude of the location",
			},
			&cli.Float64Flag{
				Name:    "distance",
				Aliases: []string{"r"},
				Usage:   "Search radius in kilometers",
				Value:   carburant.DefaultNearestKm,
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "Output language (fr, en)",
				Value: "fr",
			},
		},
		Action: nearestAction,
	}
}

func nearestAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	tr := translations.GetTranslations(translations.GetLanguageFromQuery(c.String("lang")))

	fuel, err := api.ParseFuelType(c.String("fuel"))
	if err != nil {
		return err
	}
	radius := c.Float64("distance")
	if radius <= 0 {
		return errors.New("distance must be positive")
	}

	var point carburant.Point
	switch {
	case c.String("location") != "":
		res, err := geocode.New().Locate(c.String("location"))
		if err != nil {
			if errors.Is(err, geocode.ErrNotFound) {
				return errors.New(tr.LocationNotFound)
			}
			return err
		}
		fmt.Println(tr.ResultsFor, res.DisplayName)
		point = carburant.Point{Latitude: res.Latitude, Longitude: res.Longitude}
	case c.IsSet("lat") && c.IsSet("lon"):
		point = carburant.Point{Latitude: c.Float64("lat"), Longitude: c.Float64("lon")}
		fmt.Println(tr.ResultsForCoords, point.Latitude, point.Longitude)
	default:
		return errors.New("location or latitude and longitude are required")
	}
	fmt.Println(tr.SearchRadius, radius, "km")
	fmt.Println()

	repo, err := newRepository(cfg, logger)
	if err != nil {
		return err
	}
	found, err := repo.FindNearest(context.Background(), point, fuel, radius)
	if err != nil {
		return fmt.Errorf("error fetching nearest stations: %w", err)
	}
	return carburant.WriteNearest(os.Stdout, tr, fuel, radius, carburant.NearestResults(found, fuel))
}
