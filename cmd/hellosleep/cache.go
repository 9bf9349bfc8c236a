package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hellosleep/internal/cache"
	"hellosleep/internal/config"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the pattern cache",
	}
	cmd.AddCommand(cacheStatsCmd())
	cmd.AddCommand(cacheCleanupCmd())
	return cmd
}

// openPatterns opens the configured backend and loads it. The caller closes the store.
func openPatterns(ctx context.Context, cfg *config.Config, log *zap.Logger) (*cache.PatternCache, cache.Store, error) {
	store, err := cache.Open(ctx, cfg.Cache, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	patterns := cache.NewPatternCache(store, cfg.Cache.HitThreshold, log)
	if err := patterns.Load(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return patterns, store, nil
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show pattern cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			patterns, store, err := openPatterns(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			s := patterns.Stats()
			out := cmd.OutOrStdout()
			color.New(color.FgCyan, color.Bold).Fprintf(out, "pattern cache (%s)\n", s.Backend)
			fmt.Fprintf(out, "  entries:     %d\n", s.Entries)
			fmt.Fprintf(out, "  total usage: %d\n", s.TotalUsage)
			if s.Entries > 0 {
				fmt.Fprintf(out, "  oldest:      %s\n", s.Oldest.Format(time.RFC3339))
				fmt.Fprintf(out, "  newest:      %s\n", s.Newest.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func cacheCleanupCmd() *cobra.Command {
	var (
		maxAge   time.Duration
		minUsage int
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove old entries that were rarely reused",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			if maxAge == 0 {
				if maxAge, err = cfg.Cache.MaxAge(); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("min-usage") {
				minUsage = cfg.Cache.CleanupMinUse
			}

			patterns, store, err := openPatterns(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := patterns.Cleanup(cmd.Context(), maxAge, minUsage)
			if err != nil {
				return err
			}
			log.Info("cache cleanup", zap.Int("removed", removed), zap.Duration("maxAge", maxAge), zap.Int("minUsage", minUsage))
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "removed %d entries, %d left\n", removed, patterns.Stats().Entries)
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "minimum entry age to remove (default from CACHE_CLEANUP_MAX_AGE)")
	cmd.Flags().IntVar(&minUsage, "min-usage", 0, "entries used at least this often are kept (default from CACHE_CLEANUP_MIN_USAGE)")
	return cmd
}
