package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/httpcontext-service/internal/platform/config"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/logging"
)

// newRootCmd builds the httpctx command tree. Without a subcommand it serves.
func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "httpctx",
		Short:         "Per-request HTTP context service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(envFile, cmd.Flags().Changed("env-file"))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before configuration")

	root.AddCommand(
		newServeCmd(),
		newSelfCheckCmd(),
		newVersionCmd(),
	)

	return root
}

// loadEnvFile loads a dotenv file into the process environment. A missing
// default file is ignored; a missing file named on the command line is not.
func loadEnvFile(path string, explicit bool) error {
	if err := godotenv.Load(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("loading env file %s: %w", path, err)
	}

	return nil
}

// loadConfig loads and validates configuration for the APP_ENVIRONMENT profile.
func loadConfig() (*config.Config, error) {
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// newLogger builds the process logger and installs it as the default.
func newLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(cfg.LoggingConfig())
	logging.SetDefault(logger)

	return logger
}
