package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/whpcodes/catalog-service/internal/classifier"
	"github.com/whpcodes/catalog-service/internal/importer"
	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/service"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

// renderDistribution prints label counts, largest first.
func renderDistribution(w io.Writer, dist map[string]int, total int) {
	labels := make([]string, 0, len(dist))
	for l := range dist {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if dist[labels[i]] != dist[labels[j]] {
			return dist[labels[i]] > dist[labels[j]]
		}
		return labels[i] < labels[j]
	})

	t := newTable(w, "Category distribution")
	t.AppendHeader(table.Row{"Category", "Items", "Share"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	for _, l := range labels {
		share := 0.0
		if total > 0 {
			share = float64(dist[l]) * 100 / float64(total)
		}
		t.AppendRow(table.Row{l, dist[l], fmt.Sprintf("%.1f%%", share)})
	}
	t.AppendFooter(table.Row{"Total", total, ""})
	t.Render()
}

// renderChanges prints a before/after diff.
func renderChanges(w io.Writer, title string, changes []service.Change) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"Item", "Before", "After"})
	for _, c := range changes {
		t.AppendRow(table.Row{c.Name, orDash(c.Before), c.After})
	}
	t.AppendFooter(table.Row{"Changes", len(changes), ""})
	t.Render()
}

// renderExplanations prints the accepted or closest category per changed item.
func renderExplanations(w io.Writer, changes []service.Change, explanations map[string]classifier.Explanation) {
	t := newTable(w, "Decisions")
	t.AppendHeader(table.Row{"Item", "Label", "Category", "Verdict", "Score", "Primary", "Supporting"})
	for _, c := range changes {
		exp, ok := explanations[c.ID]
		if !ok {
			continue
		}
		if !exp.HasDescription {
			t.AppendRow(table.Row{c.Name, exp.Label, "-", "no description", 0, 0, 0})
			continue
		}
		for _, d := range exp.Decisions {
			if d.Accepted || d.PrimaryHits > 0 {
				t.AppendRow(table.Row{c.Name, exp.Label, d.Label, d.Reason, d.Score, d.PrimaryHits, d.SupportingHits})
			}
		}
	}
	t.Render()
}

func renderBulk(w io.Writer, title string, res *models.BulkResult) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"Succeeded", "Failed"})
	t.AppendRow(table.Row{res.Succeeded, res.Failed})
	t.Render()

	if len(res.Errors) == 0 {
		return
	}
	keys := make([]string, 0, len(res.Errors))
	for k := range res.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e := newTable(w, "Failures")
	e.AppendHeader(table.Row{"Item", "Error"})
	for _, k := range keys {
		e.AppendRow(table.Row{k, res.Errors[k]})
	}
	e.Render()
}

// importPreview is one row as it would be inserted.
type importPreview struct {
	Row      int
	Name     string
	Category string
	Price    string
}

func renderImportPreview(w io.Writer, rows []importPreview) {
	t := newTable(w, "Rows to import")
	t.AppendHeader(table.Row{"Row", "Name", "Category", "Price"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Row, r.Name, r.Category, orDash(r.Price)})
	}
	t.Render()
}

func renderImportErrors(w io.Writer, errs []importer.ImportError) {
	if len(errs) == 0 {
		return
	}
	t := newTable(w, "Rejected rows")
	t.AppendHeader(table.Row{"Row", "Name", "Error"})
	for _, e := range errs {
		t.AppendRow(table.Row{e.Row, orDash(e.Name), e.Error})
	}
	t.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
