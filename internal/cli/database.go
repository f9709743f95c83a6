package cli

import (
	"github.com/spf13/cobra"

	"terminal-commons/internal/core/config"
	"terminal-commons/internal/core/database"
	"terminal-commons/internal/core/logger"
)

func newMigrateCommand(cfg **config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect((*cfg).Database.DSN, logger.Get())
			if err != nil {
				return err
			}
			return database.Migrate(cmd.Context(), db, logger.Get())
		},
	}
}

func newSeedCommand(cfg **config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the scraper metadata catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect((*cfg).Database.DSN, logger.Get())
			if err != nil {
				return err
			}
			return database.Seed(db, logger.Get())
		},
	}
}

func newStatusCommand(cfg **config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect((*cfg).Database.DSN, logger.Get())
			if err != nil {
				return err
			}
			return database.Status(db)
		},
	}
}
