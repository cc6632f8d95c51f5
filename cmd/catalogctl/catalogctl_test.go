package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whpcodes/catalog-service/internal/api/middleware"
	"github.com/whpcodes/catalog-service/internal/classifier"
	"github.com/whpcodes/catalog-service/internal/importer"
	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/pricing"
	"github.com/whpcodes/catalog-service/internal/service"
	"github.com/whpcodes/catalog-service/internal/taxonomy"
)

func TestRenderDistribution(t *testing.T) {
	var buf bytes.Buffer
	renderDistribution(&buf, map[string]int{"Trading": 3, "Other": 1}, 4)

	out := buf.String()
	assert.Contains(t, out, "Category distribution")
	assert.Contains(t, out, "75.0%")
	assert.Less(t, strings.Index(out, "Trading"), strings.Index(out, "Other"))
}

func TestRenderChanges(t *testing.T) {
	var buf bytes.Buffer
	renderChanges(&buf, "Price changes", []service.Change{
		{ID: "1", Name: "Alpha", Before: "", After: "N/A"},
		{ID: "2", Name: "Beta", Before: "15 USD / week", After: "15 USD/week"},
	})

	out := buf.String()
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "15 USD/week")
	assert.Contains(t, out, "-")
}

func TestRenderBulk_ListsFailures(t *testing.T) {
	res := &models.BulkResult{}
	res.Record("a", nil)
	res.Record("b", assert.AnError)

	var buf bytes.Buffer
	renderBulk(&buf, "Applied", res)
	assert.Contains(t, buf.String(), "Failures")
	assert.Contains(t, buf.String(), assert.AnError.Error())
}

func TestPreviewRows(t *testing.T) {
	tax := taxonomy.Default()
	clf := classifier.New(tax, classifier.NewHolisticScorer(tax, classifier.DefaultThresholds))
	n := pricing.NewNormalizer(nil)

	out := previewRows([]importer.Row{
		{Row: 2, Name: "Mystery Box"},
		{Row: 3, Name: "Kept", Category: "Gaming", Price: "free"},
	}, clf, n)

	require.Len(t, out, 2)
	assert.Equal(t, "Other", out[0].Category)
	assert.Empty(t, out[0].Price)
	assert.Equal(t, "Gaming", out[1].Category)
	assert.Equal(t, "Free", out[1].Price)
}

func TestTokenCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  jwt_secret: cli-secret\n"), 0o600))

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "token", "--subject", "ops"})
	require.NoError(t, root.Execute())

	claims := &middleware.Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(out.String()), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
}

func TestImportCommand_RequiresFile(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yml"), "import"})
	assert.Error(t, root.Execute())
}
