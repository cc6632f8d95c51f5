package pricing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whpcodes/catalog-service/pkg/logger"
)

func writeOverrides(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "price_overrides.yml")
	writeOverrides(t, path, `
overrides:
  - name: "Scale Your Salary (3M+VA)"
    price: "$1,750/month"
  - name: "Other"
    price: "Free"
`)

	entries, err := LoadOverrides(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	table := NewOverrideTable(entries)
	price, ok := table.Lookup(" Scale Your Salary (3M+VA) ")
	assert.True(t, ok)
	assert.Equal(t, "$1,750/month", price)
	_, ok = table.Lookup("scale your salary (3m+va)")
	assert.False(t, ok, "lookup is exact-name")
}

func TestLoadOverrides_MissingFile(t *testing.T) {
	entries, err := LoadOverrides(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadOverrides_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	writeOverrides(t, path, "overrides:\n  - name: \"\"\n    price: \"$1\"\n")
	_, err := LoadOverrides(path)
	assert.Error(t, err)

	writeOverrides(t, path, "overrides: [")
	_, err = LoadOverrides(path)
	assert.Error(t, err)
}

func TestOverrideTable_EmptyLookup(t *testing.T) {
	var table OverrideTable
	_, ok := table.Lookup("anything")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
}

func TestWatchOverrides_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "price_overrides.yml")
	writeOverrides(t, path, "overrides:\n  - name: \"A\"\n    price: \"$1\"\n")

	entries, err := LoadOverrides(path)
	require.NoError(t, err)
	table := NewOverrideTable(entries)

	w, err := WatchOverrides(path, table, logger.NewNop(), nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, w.Close()) }()

	writeOverrides(t, path, "overrides:\n  - name: \"A\"\n    price: \"$2\"\n  - name: \"B\"\n    price: \"Free\"\n")

	require.Eventually(t, func() bool {
		price, ok := table.Lookup("B")
		return ok && price == "Free"
	}, 5*time.Second, 20*time.Millisecond)

	price, _ := table.Lookup("A")
	assert.Equal(t, "$2", price)
	assert.Equal(t, 2, table.Len())
}

func TestWatchOverrides_KeepsTableOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "price_overrides.yml")
	writeOverrides(t, path, "overrides:\n  - name: \"A\"\n    price: \"$1\"\n")
	table := NewOverrideTable([]Override{{Name: "A", Price: "$1"}})

	failures := make(chan error, 16)
	w, err := WatchOverrides(path, table, logger.NewNop(), func(_ int, err error) {
		if err == nil {
			return
		}
		select {
		case failures <- err:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	tmp := filepath.Join(dir, "incoming.tmp")
	writeOverrides(t, tmp, "overrides: [")
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-failures:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a failed reload")
	}
	price, ok := table.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "$1", price)
}
