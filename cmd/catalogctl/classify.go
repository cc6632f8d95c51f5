package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whpcodes/catalog-service/internal/app"
	"github.com/whpcodes/catalog-service/internal/repository"
	"github.com/whpcodes/catalog-service/internal/service"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

func newClassifyCommand(c *cli) *cobra.Command {
	var (
		apply    bool
		strategy string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Reclassify every item and report category changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			clf, err := app.NewClassifier(c.cfg, strategy)
			if err != nil {
				return err
			}

			conn, err := c.openDB(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			m := service.NewMaintainer(repository.NewItemRepo(conn), c.workers)
			plan, err := m.PlanClassification(ctx, clf)
			if err != nil {
				return fmt.Errorf("plan classification: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Strategy: %s\n", clf.Strategy())
			renderDistribution(out, plan.Distribution, plan.Total)
			renderChanges(out, "Category changes", plan.Changes)
			if verbose {
				renderExplanations(out, plan.Changes, plan.Explanations)
			}

			if !apply {
				fmt.Fprintln(out, "Dry run: pass --apply to write categories")
				return nil
			}
			res := m.ApplyCategories(ctx, plan.Changes)
			c.log.Info("Categories applied",
				logger.String("strategy", clf.Strategy()),
				logger.Int("succeeded", res.Succeeded),
				logger.Int("failed", res.Failed),
			)
			renderBulk(out, "Applied categories", res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "write the new categories")
	cmd.Flags().StringVar(&strategy, "strategy", "", "holistic or contextual (default from config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show per-category decisions for changed items")
	return cmd
}
