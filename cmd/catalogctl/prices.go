package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whpcodes/catalog-service/internal/app"
	"github.com/whpcodes/catalog-service/internal/pricing"
	"github.com/whpcodes/catalog-service/internal/repository"
	"github.com/whpcodes/catalog-service/internal/service"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

func newFixPricesCommand(c *cli) *cobra.Command {
	var (
		apply     bool
		overrides string
	)
	cmd := &cobra.Command{
		Use:   "fix-prices",
		Short: "Normalize every item's price and report changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if overrides == "" {
				overrides = c.cfg.Pricing.OverridesPath
			}
			table, err := app.LoadOverrideTable(overrides, nil)
			if err != nil {
				return fmt.Errorf("load price overrides: %w", err)
			}

			conn, err := c.openDB(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			m := service.NewMaintainer(repository.NewItemRepo(conn), c.workers)
			plan, err := m.PlanPrices(ctx, pricing.NewNormalizer(table))
			if err != nil {
				return fmt.Errorf("plan prices: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Items: %d, overrides: %d\n", plan.Total, table.Len())
			renderChanges(out, "Price changes", plan.Changes)

			if !apply {
				fmt.Fprintln(out, "Dry run: pass --apply to write prices")
				return nil
			}
			res := m.ApplyPrices(ctx, plan.Changes)
			c.log.Info("Prices applied",
				logger.Int("succeeded", res.Succeeded),
				logger.Int("failed", res.Failed),
			)
			renderBulk(out, "Applied prices", res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "write the normalized prices")
	cmd.Flags().StringVar(&overrides, "overrides", "", "price override file (default from config)")
	return cmd
}
