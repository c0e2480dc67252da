package engine

import (
	"sync"

	"github.com/google/btree"
)

const (
	defaultTreeOrder   = 8
	defaultMemtableMax = 4096
)

// memtable is the in-memory write buffer of a DB. Keys are indexed in a
// btree for ordered iteration and in a hash map for O(1) point lookups --
// the same two-structure layout the teacher's Memtable used. The btree is
// keyed on string(encodedKey): Go string comparison is byte-wise, which is
// exactly the lexicographic order the key-codec contract requires, so no
// custom Less function is needed.
type memtable struct {
	mu      sync.RWMutex
	tree    *btree.BTreeG[string]
	records map[string]Record
	maxSize int
}

func newMemtable() *memtable {
	return &memtable{
		tree:    btree.NewOrderedG[string](defaultTreeOrder),
		records: make(map[string]Record),
		maxSize: defaultMemtableMax,
	}
}

func (m *memtable) get(key []byte) (Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[string(key)]
	return r, ok
}

func (m *memtable) put(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := string(r.Key)
	m.records[k] = r
	m.tree.ReplaceOrInsert(k)
}

func (m *memtable) delete(key []byte) {
	m.put(Record{Key: key, Tomb: true})
}

func (m *memtable) full() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records) >= m.maxSize
}

func (m *memtable) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// ascend calls fn for every record with key >= seek, in ascending key
// order, stopping early if fn returns false.
func (m *memtable) ascend(seek []byte, fn func(Record) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.tree.AscendGreaterOrEqual(string(seek), func(k string) bool {
		return fn(m.records[k])
	})
}

// snapshot returns every record in ascending key order, used to flush the
// memtable into an SSTable.
func (m *memtable) snapshot() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0, len(m.records))
	m.tree.Ascend(func(k string) bool {
		out = append(out, m.records[k])
		return true
	})
	return out
}

func (m *memtable) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree = btree.NewOrderedG[string](defaultTreeOrder)
	m.records = make(map[string]Record)
}
