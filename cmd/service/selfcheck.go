package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/httpcontext-service/internal/app"
	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/logging"
)

// errUnhealthy makes the selfcheck command exit non-zero.
var errUnhealthy = errors.New("request context isolation failures found")

func newSelfCheckCmd() *cobra.Command {
	var units, reads, workers int

	cmd := &cobra.Command{
		Use:   "selfcheck",
		Short: "Probe request context isolation under concurrency and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// stdout carries the report
			logger := logging.NewWithWriter(cfg.LoggingConfig(), cmd.ErrOrStderr())
			logging.SetDefault(logger)

			flags := cmd.Flags()
			if !flags.Changed("units") {
				units = cfg.SelfCheck.Units
			}

			if !flags.Changed("reads") {
				reads = cfg.SelfCheck.Reads
			}

			if !flags.Changed("workers") {
				workers = cfg.SelfCheck.Workers
			}

			pool := app.NewUnitPool(appcontext.NewRegistry(), workers)

			report, err := pool.SelfCheck(cmd.Context(), units, reads)
			if err != nil {
				return fmt.Errorf("self-check: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}

			if !report.Healthy() {
				logger.Error("self-check failed",
					slog.Int64("mismatches", report.Mismatches),
					slog.Int64("leaks", report.Leaks),
				)
				return errUnhealthy
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&units, "units", 0, "concurrent execution units (default from config)")
	cmd.Flags().IntVar(&reads, "reads", 0, "reads per unit (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (default from config)")

	return cmd
}
