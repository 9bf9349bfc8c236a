package main

import (
	"context"
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hellosleep/internal/catalog"
	"hellosleep/internal/repository"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Publish the static booklet catalog to MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			if !cfg.Mongo.Enabled() {
				return errors.New("MONGO_URI is not set")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			client, db, err := repository.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			repo := repository.NewContentRepo(db)
			if err := repo.EnsureIndexes(ctx); err != nil {
				return err
			}
			n, err := repo.PublishBooklets(ctx, catalog.Booklets())
			if err != nil {
				return err
			}
			log.Info("booklets published", zap.Int("count", n), zap.String("database", cfg.Mongo.Database))
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "published %d booklets\n", n)
			return nil
		},
	}
}
