package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rubiojr/prixcarburant/internal/carburant"
	"github.com/rubiojr/prixcarburant/internal/config"
	"github.com/rubiojr/prixcarburant/internal/coordinator"
	"github.com/rubiojr/prixcarburant/internal/names"
	"github.com/rubiojr/prixcarburant/pkg/api"
	"github.com/urfave/cli/v2"
)

// loadConfig reads the configuration file and applies the global flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return cfg.Logger(os.Stderr)
}

func newAPI(cfg *config.Config, logger *slog.Logger) *api.FuelPriceAPI {
	return api.NewFuelPriceAPI(
		api.WithTimeZone(cfg.TimeZone),
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
}

func newRepository(cfg *config.Config, logger *slog.Logger) (*carburant.Repository, error) {
	var (
		table names.Table
		err   error
	)
	if cfg.NamesFile != "" {
		table, err = names.Load(cfg.NamesFile)
	} else {
		table, err = names.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("error loading station names: %w", err)
	}
	return carburant.NewRepository(newAPI(cfg, logger), table, logger), nil
}

// initStations returns the loader matching the configured mode: the listed
// station ids, or every station around the home location.
func initStations(cfg *config.Config, repo *carburant.Repository) coordinator.InitFunc {
	home := carburant.Point{Latitude: cfg.Latitude, Longitude: cfg.Longitude}
	if cfg.ListMode() {
		return func(ctx context.Context) error {
			return repo.InitFromList(ctx, cfg.Stations, home)
		}
	}
	return func(ctx context.Context) error {
		return repo.InitFromLocation(ctx, home, cfg.MaxKm)
	}
}

// loadStations initializes the followed stations and fetches their prices
// once.
func loadStations(ctx context.Context, cfg *config.Config, logger *slog.Logger) (map[int64]*carburant.Station, error) {
	repo, err := newRepository(cfg, logger)
	if err != nil {
		return nil, err
	}
	coord := coordinator.New(repo, initStations(cfg, repo), cfg.Interval(), logger)
	if err := coord.Initialize(ctx); err != nil {
		return nil, err
	}
	return repo.Stations(), nil
}
