package main

import (
	"fmt"
	"os"

	"alcyxob/fit-platform/internal/config"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Fit Platform API server",
	Long:  "Fit Platform serves the course catalogue, workout and nutrition tracking, trainer statistics and the trainer panel.",
	// Running the binary without a subcommand starts the server.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "Directory containing config.yaml and an optional .env file")
}

// loadConfig reads and validates the configuration from --config.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
