package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whpcodes/catalog-service/internal/app"
	"github.com/whpcodes/catalog-service/internal/classifier"
	"github.com/whpcodes/catalog-service/internal/importer"
	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/pricing"
	"github.com/whpcodes/catalog-service/internal/repository"
	"github.com/whpcodes/catalog-service/internal/service"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

func newImportCommand(c *cli) *cobra.Command {
	var (
		apply bool
		sheet string
	)
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import items from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if sheet == "" {
				sheet = c.cfg.Import.SheetName
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, rejected, err := importer.ParseWorkbook(f, sheet)
			if err != nil {
				return err
			}

			clf, err := app.NewClassifier(c.cfg, "")
			if err != nil {
				return err
			}
			table, err := app.LoadOverrideTable(c.cfg.Pricing.OverridesPath, nil)
			if err != nil {
				return fmt.Errorf("load price overrides: %w", err)
			}
			normalizer := pricing.NewNormalizer(table)

			out := cmd.OutOrStdout()
			renderImportPreview(out, previewRows(rows, clf, normalizer))
			renderImportErrors(out, rejected)

			if !apply {
				fmt.Fprintf(out, "Dry run: %d rows valid, %d rejected; pass --apply to insert\n", len(rows), len(rejected))
				return nil
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "Nothing to import")
				return nil
			}

			conn, err := c.openDB(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			catalog := service.NewCatalogService(service.CatalogDeps{
				Whops:      repository.NewItemRepo(conn),
				Promos:     repository.NewPromoRepo(conn),
				Reviews:    repository.NewReviewRepo(conn),
				Classifier: clf,
				Normalizer: normalizer,
				Log:        c.log,
			})
			res, err := catalog.Import(ctx, inputs(rows))
			if err != nil {
				return err
			}
			c.log.Info("Spreadsheet imported",
				logger.String("file", args[0]),
				logger.Int("succeeded", res.Succeeded),
				logger.Int("failed", res.Failed),
				logger.Int("rejected", len(rejected)),
			)
			renderBulk(out, "Imported items", res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "insert the valid rows")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (default from config)")
	return cmd
}

func inputs(rows []importer.Row) []models.WhopInput {
	out := make([]models.WhopInput, len(rows))
	for i, r := range rows {
		out[i] = r.Input()
	}
	return out
}

// previewRows shows what an import would store: blank categories are
// classified and present prices normalized.
func previewRows(rows []importer.Row, clf *classifier.Classifier, n *pricing.Normalizer) []importPreview {
	out := make([]importPreview, len(rows))
	for i, r := range rows {
		in := r.Input()
		p := importPreview{Row: r.Row, Name: in.Name, Category: r.Category}
		if in.Category == nil {
			p.Category = clf.Classify(in.Name, in.Description)
		}
		if in.Price != nil {
			p.Price = n.Normalize(*in.Price, in.Name, r.Description)
		}
		out[i] = p
	}
	return out
}
