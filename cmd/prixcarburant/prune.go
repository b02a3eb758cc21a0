package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rubiojr/prixcarburant/internal/storage"
	"github.com/urfave/cli/v2"
)

func pruneCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Delete old price history and compact the database",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "days",
				Usage: "Delete prices recorded more than this many days ago",
				Value: 365,
			},
		},
		Action: pruneAction,
	}
}

func pruneAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	days := c.Int("days")
	if days <= 0 {
		return errors.New("days must be positive")
	}

	ctx := context.Background()
	store, err := storage.NewStorage(ctx, cfg.DBPath, newLogger(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.DeleteOldRecords(ctx, days)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d price records older than %d days\n", deleted, days)

	return store.VacuumDatabase(ctx)
}
