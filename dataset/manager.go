// Package dataset owns the per-dataset engine handles backing a wide
// column database. Each dataset is realized as an independent engine.DB
// rooted at its own subdirectory, the engine's analogue of a
// column-family handle.
package dataset

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/avoss/ridgedb/engine"
	"github.com/avoss/ridgedb/rerr"
)

// DefaultDataset is the implicit dataset used when a request does not
// name one.
const DefaultDataset = "default"

// Manager opens, creates, and resolves the dataset handles of one
// database. It is safe for concurrent use: handles are created once at
// Open and never mutated afterward, so resolution needs no locking beyond
// the map read itself, which is never written to post-construction.
type Manager struct {
	mu      sync.Mutex
	basePath string
	opts    engine.Options
	handles map[string]*engine.DB
}

// Open creates or opens one engine.DB per name in declared, plus the
// implicit default dataset, each rooted at basePath/datasets/<name>.
func Open(basePath string, declared []string, opts engine.Options) (*Manager, error) {
	names := map[string]bool{DefaultDataset: true}
	for _, n := range declared {
		names[n] = true
	}

	m := &Manager{
		basePath: basePath,
		opts:     opts,
		handles:  make(map[string]*engine.DB, len(names)),
	}

	for n := range names {
		dir := m.dirFor(n)
		db, err := engine.Open(dir, opts)
		if err != nil {
			m.closeAll()
			return nil, fmt.Errorf("%w: opening dataset %q: %v", rerr.ErrStorage, n, err)
		}
		m.handles[n] = db
	}

	return m, nil
}

func (m *Manager) dirFor(name string) string {
	return filepath.Join(m.basePath, "datasets", name)
}

// Resolve returns the engine handle for a request-supplied dataset name.
// A nil or empty name resolves to DefaultDataset. Names not declared at
// Open return ErrUnknownDataset.
func (m *Manager) Resolve(name string) (*engine.DB, error) {
	if name == "" {
		name = DefaultDataset
	}
	db, ok := m.handles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", rerr.ErrUnknownDataset, name)
	}
	return db, nil
}

// Close releases every dataset handle. It is safe to call once; the
// Manager must not be used afterward.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeAll()
}

func (m *Manager) closeAll() error {
	var firstErr error
	for name, db := range m.handles {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w: closing dataset %q: %v", rerr.ErrStorage, name, err)
		}
	}
	return firstErr
}
