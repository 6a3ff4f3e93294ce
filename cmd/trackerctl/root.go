package main

import (
	"context"
	"fmt"

	"leetracker/internal/bootstrap"
	"leetracker/internal/config"
	"leetracker/internal/store"
	"leetracker/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openTracker loads config, connects the backend and opens the store. Tests
// swap it for an in-memory store.
var openTracker = func(ctx context.Context, verbose bool) (*store.Store, bootstrap.Closer, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = utils.NewLogger("debug"); err != nil {
			return nil, nil, err
		}
	}

	backend, closer, err := bootstrap.OpenBackend(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, nil, err
	}
	tracker, err := store.Open(ctx, backend, store.WithLogger(logger))
	if err != nil {
		closer(ctx)
		return nil, nil, err
	}
	return tracker, closer, nil
}

// app carries the opened store from PersistentPreRunE to the subcommands.
type app struct {
	verbose bool
	tracker *store.Store
	closer  bootstrap.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "trackerctl",
		Short: "Manage LeetCode company question lists from the terminal",
		Long: `trackerctl reads and writes the same storage as the leetracker server.
Import company CSV exports, toggle questions and print progress stats.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			tracker, closer, err := openTracker(cmd.Context(), a.verbose)
			if err != nil {
				return err
			}
			a.tracker, a.closer = tracker, closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer == nil {
				return nil
			}
			return a.closer(context.Background())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log storage activity to stderr")

	root.AddCommand(
		newImportCmd(a),
		newStatsCmd(a),
		newToggleCmd(a),
		newCompaniesCmd(a),
		newExportCmd(a),
	)
	return root
}
