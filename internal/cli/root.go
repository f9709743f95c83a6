package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"terminal-commons/internal/core/config"
	"terminal-commons/internal/core/logger"
)

// NewRootCommand builds the termcommons CLI. Every subcommand loads
// configuration from the environment the same way the API does.
func NewRootCommand() *cobra.Command {
	var cfg *config.AppConfig

	root := &cobra.Command{
		Use:           "termcommons",
		Short:         "Operate the container terminal scraping service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(".")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	root.AddCommand(
		newMigrateCommand(&cfg),
		newSeedCommand(&cfg),
		newStatusCommand(&cfg),
		newRunCommand(&cfg),
		newTriggerCommand(&cfg),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		log.Fatalf("termcommons: %v", err)
	}
}
