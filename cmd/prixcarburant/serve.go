package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/rubiojr/prixcarburant/internal/carburant"
	"github.com/rubiojr/prixcarburant/internal/coordinator"
	"github.com/rubiojr/prixcarburant/internal/geocode"
	"github.com/rubiojr/prixcarburant/internal/server"
	"github.com/rubiojr/prixcarburant/internal/storage"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Refresh prices periodically and serve them over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Usage:   "HTTP listen address",
				EnvVars: []string{"PRIXCARBURANT_LISTEN"},
			},
			&cli.IntFlag{
				Name:  "rate-limit",
				Usage: "Requests allowed per IP and minute",
				Value: server.DefaultRateLimit,
			},
			&cli.BoolFlag{
				Name:  "no-geocoding",
				Usage: "Disable location search on /nearest",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("listen") {
		cfg.Listen = c.String("listen")
	}
	level, _ := cfg.Level()

	logger := httplog.NewLogger("prixcarburant", httplog.Options{
		JSON:            false,
		LogLevel:        level,
		Concise:         true,
		QuietDownPeriod: 10 * time.Second,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStorage(ctx, cfg.DBPath, logger.Logger)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer store.Close()

	repo, err := newRepository(cfg, logger.Logger)
	if err != nil {
		return err
	}

	coord := coordinator.New(repo, initStations(cfg, repo), cfg.Interval(), logger.Logger)
	coord.OnRefresh(func(ctx context.Context, stations map[int64]*carburant.Station) error {
		return store.SaveStations(ctx, stations, time.Now())
	})
	stopCoordinator := startCoordinator(ctx, coord.Run)
	defer stopCoordinator()

	opts := server.Options{
		Stations:  repo,
		Refresher: coord,
		History:   store,
		Sensors: carburant.SensorOptions{
			Fuels:    cfg.EnabledFuels(),
			Pictures: cfg.DisplayEntityPictures,
		},
		Logger:    logger,
		RateLimit: c.Int("rate-limit"),
	}
	if !c.Bool("no-geocoding") {
		opts.Geocoder = geocode.New()
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.New(opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Starting server", slog.String("addr", cfg.Listen))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startCoordinator calls run in the background. The returned stop cancels it
// and waits for run to return, so a refresh never outlives the store.
func startCoordinator(ctx context.Context, run func(context.Context)) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
