package main

import (
	"context"
	"fmt"

	"edumatch/internal/db"
	"edumatch/internal/seed"
	"edumatch/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with development fixtures",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Dump seeded records",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		userRepo := store.NewUserRepository(pool)
		needsRepo := store.NewNeedRepository(pool)

		logrus.Info("Seeding users...")
		users, err := seed.SeedUsers(ctx, userRepo)
		if err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		logrus.Info("Seeding needs...")
		if err := seed.SeedNeeds(ctx, needsRepo, users, c.Bool("verbose")); err != nil {
			return fmt.Errorf("failed to seed needs: %w", err)
		}

		logrus.Info("Fixtures seeded successfully")

		return nil
	},
}
