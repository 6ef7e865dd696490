package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/config"
	"github.com/jdank417/GroceryBarcodeScanner/internal/logger"
)

func newMigrateCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the events table, or recreate it empty with --reset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), reset)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop every stored event and recreate the table")

	return cmd
}

func runMigrate(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	repo, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(repo, log)

	if reset {
		log.Warn("Resetting event store", zap.String("driver", cfg.Store.Driver))
		return repo.Reset(ctx)
	}
	return repo.InitSchema(ctx)
}
