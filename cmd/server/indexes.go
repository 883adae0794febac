package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fit-platform/internal/config"
	"alcyxob/fit-platform/internal/logger"
	"alcyxob/fit-platform/internal/repository/mongo"

	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database.Driver != config.DriverMongo {
			return errors.New("indexes requires database.driver mongo")
		}
		log := logger.New(cfg)

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		store, err := mongo.Open(ctx, mongoOptions(cfg, log))
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		if err := store.EnsureIndexes(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "indexes are up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
