package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/whpcodes/catalog-service/internal/app"
	"github.com/whpcodes/catalog-service/internal/config"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

const defaultWorkers = 4

// cli carries the state shared by every subcommand.
type cli struct {
	configPath string
	workers    int

	cfg *config.Config
	log logger.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Catalog maintenance for the WHPCodes catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().IntVar(&c.workers, "workers", defaultWorkers, "concurrent planners")

	root.AddCommand(
		newClassifyCommand(c),
		newFixPricesCommand(c),
		newImportCommand(c),
		newTokenCommand(c),
	)
	return root
}

func (c *cli) init() error {
	path := c.configPath
	if path == "" {
		path = config.GetConfigPath("config.yml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := app.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	c.cfg = cfg
	c.log = log.With(logger.String("component", "catalogctl"))
	return nil
}

func (c *cli) openDB(ctx context.Context) (*sqlx.DB, error) {
	conn, err := app.OpenDatabase(ctx, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return conn, nil
}
