package pricing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/whpcodes/catalog-service/pkg/logger"
)

// Override is one manual price correction keyed by exact item name.
type Override struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

type overrideFile struct {
	Overrides []Override `yaml:"overrides"`
}

// OverrideTable is a concurrency-safe name -> price table. Readers never
// block; Replace swaps the whole table at once.
type OverrideTable struct {
	byName atomic.Pointer[map[string]string]
}

// NewOverrideTable returns a table holding entries.
func NewOverrideTable(entries []Override) *OverrideTable {
	t := &OverrideTable{}
	t.Replace(entries)
	return t
}

// Lookup implements OverrideSource.
func (t *OverrideTable) Lookup(name string) (string, bool) {
	m := t.byName.Load()
	if m == nil {
		return "", false
	}
	price, ok := (*m)[strings.TrimSpace(name)]
	return price, ok
}

// Replace swaps the table contents.
func (t *OverrideTable) Replace(entries []Override) {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		m[name] = strings.TrimSpace(e.Price)
	}
	t.byName.Store(&m)
}

// Len returns the number of overrides.
func (t *OverrideTable) Len() int {
	m := t.byName.Load()
	if m == nil {
		return 0
	}
	return len(*m)
}

// LoadOverrides reads an override file. A missing file yields no overrides.
func LoadOverrides(path string) ([]Override, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read overrides %s: %w", path, err)
	}

	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	for i, o := range f.Overrides {
		if strings.TrimSpace(o.Name) == "" || strings.TrimSpace(o.Price) == "" {
			return nil, fmt.Errorf("parse overrides %s: entry %d needs name and price", path, i)
		}
	}
	return f.Overrides, nil
}

// OverrideWatcher reloads an OverrideTable whenever its file changes.
type OverrideWatcher struct {
	path     string
	table    *OverrideTable
	log      logger.Logger
	watcher  *fsnotify.Watcher
	onReload func(count int, err error)

	done chan struct{}
	wg   sync.WaitGroup
}

// WatchOverrides watches the directory holding path, since editors and
// config management usually replace the file rather than write in place.
// onReload may be nil.
func WatchOverrides(path string, table *OverrideTable, log logger.Logger, onReload func(count int, err error)) (*OverrideWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	ow := &OverrideWatcher{
		path:     filepath.Clean(path),
		table:    table,
		log:      log,
		watcher:  w,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	ow.wg.Add(1)
	go ow.run()
	return ow, nil
}

func (w *OverrideWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Price override watcher error", logger.Error(err))
		}
	}
}

func (w *OverrideWatcher) reload() {
	entries, err := LoadOverrides(w.path)
	if err != nil {
		// Keep serving the previous table.
		w.log.Warn("Failed to reload price overrides", logger.String("path", w.path), logger.Error(err))
	} else {
		w.table.Replace(entries)
		w.log.Info("Reloaded price overrides", logger.String("path", w.path), logger.Int("count", len(entries)))
	}
	if w.onReload != nil {
		w.onReload(len(entries), err)
	}
}

// Close stops watching.
func (w *OverrideWatcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
