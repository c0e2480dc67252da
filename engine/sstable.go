package engine

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/golang/snappy"
	"github.com/google/uuid"
)

const (
	defaultBloomFilterSize = 100_000
	defaultBloomFilterFPR  = 0.01
)

// sstBuilder accumulates records in key order and flushes them into a new
// immutable SSTable. Adapted from the teacher's SSTBuilder: binary framed
// records instead of JSON lines (keys here are raw bytes, not UTF-8 text),
// and, when Compress is set, the whole data block is snappy-compressed
// before being written,
// rather than the teacher's unused blank import of the compression
// package.
type sstBuilder struct {
	Path    string
	Level   uint16
	Compress bool

	id     string
	minKey []byte
	maxKey []byte
	count  uint64
	bf     *bloom.BloomFilter
	buf    bytes.Buffer
	create time.Time
}

func newSSTBuilder(dir string, level uint16, compress bool) (*sstBuilder, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	return &sstBuilder{
		Path:     dir,
		Level:    level,
		Compress: compress,
		id:       id.String(),
		create:   time.Now(),
		bf:       bloom.NewWithEstimates(defaultBloomFilterSize, defaultBloomFilterFPR),
	}, nil
}

// add appends a record to the builder. Records must be added in ascending
// key order (the caller -- a memtable flush or a level compaction -- is
// responsible for that ordering).
func (b *sstBuilder) add(r Record) error {
	if err := writeRecord(&b.buf, r); err != nil {
		return err
	}

	b.bf.Add(r.Key)

	if b.count == 0 || bytes.Compare(r.Key, b.minKey) < 0 {
		b.minKey = append([]byte(nil), r.Key...)
	}
	if b.count == 0 || bytes.Compare(r.Key, b.maxKey) > 0 {
		b.maxKey = append([]byte(nil), r.Key...)
	}
	b.count++

	return nil
}

// finish writes the data, meta, and bloom filter files to disk and returns
// a handle to the new table.
func (b *sstBuilder) finish() (*sstable, error) {
	data := b.buf.Bytes()
	if b.Compress {
		data = snappy.Encode(nil, data)
	}

	dataPath := fmtSSTDataPath(b.Path, b.id)
	if err := os.WriteFile(dataPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write sstable data: %w", err)
	}

	meta := sstMeta{
		ID:          b.id,
		Level:       b.Level,
		MinKey:      b.minKey,
		MaxKey:      b.maxKey,
		RecordCount: b.count,
		CreatedAt:   b.create,
		Compressed:  b.Compress,
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(fmtSSTMetaPath(b.Path, b.id), metaBytes, 0644); err != nil {
		return nil, fmt.Errorf("failed to write sstable meta: %w", err)
	}

	bfBytes, err := b.bf.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(fmtSSTBloomPath(b.Path, b.id), bfBytes, 0644); err != nil {
		return nil, fmt.Errorf("failed to write sstable bloom filter: %w", err)
	}

	return &sstable{id: b.id, path: b.Path, meta: meta, bloom: b.bf}, nil
}

// sstable is an immutable, sorted, on-disk table of records.
type sstable struct {
	mu    sync.Mutex
	id    string
	path  string
	meta  sstMeta
	bloom *bloom.BloomFilter
}

// loadSSTable reads an existing table's meta and bloom filter files. The
// data file is read lazily on scan, not eagerly here.
func loadSSTable(dir, id string) (*sstable, error) {
	metaBytes, err := os.ReadFile(fmtSSTMetaPath(dir, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read sstable meta id=%q: %w", id, err)
	}
	var meta sstMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sstable meta id=%q: %w", id, err)
	}

	bfBytes, err := os.ReadFile(fmtSSTBloomPath(dir, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read sstable bloom filter id=%q: %w", id, err)
	}
	bf := &bloom.BloomFilter{}
	if err := bf.UnmarshalBinary(bfBytes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sstable bloom filter id=%q: %w", id, err)
	}

	return &sstable{id: id, path: dir, meta: meta, bloom: bf}, nil
}

// mightContain reports whether key could be present in the table. A false
// result is definitive; a true result requires a scan to confirm.
func (t *sstable) mightContain(key []byte) bool {
	if bytes.Compare(key, t.meta.MinKey) < 0 || bytes.Compare(key, t.meta.MaxKey) > 0 {
		return false
	}
	return t.bloom.Test(key)
}

func (t *sstable) get(key []byte) (Record, bool, error) {
	if !t.mightContain(key) {
		return Record{}, false, nil
	}

	var found Record
	ok := false
	err := t.scan(func(r Record) (bool, error) {
		switch bytes.Compare(r.Key, key) {
		case 0:
			found, ok = r, true
			return true, nil
		case 1:
			return true, nil
		default:
			return false, nil
		}
	})
	return found, ok, err
}

// scan calls fn with every record in the table in ascending key order,
// stopping early if fn reports done.
func (t *sstable) scan(fn func(r Record) (done bool, err error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, err := os.ReadFile(fmtSSTDataPath(t.path, t.id))
	if err != nil {
		return fmt.Errorf("failed to read sstable id=%q data: %w", t.id, err)
	}
	if t.meta.Compressed {
		raw, err = snappy.Decode(nil, raw)
		if err != nil {
			return fmt.Errorf("failed to decompress sstable id=%q data: %w", t.id, err)
		}
	}

	r := bufio.NewReader(bytes.NewReader(raw))
	for {
		rec, err := readRecord(r)
		if err != nil {
			break
		}
		done, err := fn(rec)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	return nil
}

func (t *sstable) delete() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, p := range []string{
		fmtSSTDataPath(t.path, t.id),
		fmtSSTMetaPath(t.path, t.id),
		fmtSSTBloomPath(t.path, t.id),
	} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

type sstMeta struct {
	ID          string    `json:"id"`
	Level       uint16    `json:"level"`
	MinKey      []byte    `json:"minKey"`
	MaxKey      []byte    `json:"maxKey"`
	RecordCount uint64    `json:"recordCount"`
	CreatedAt   time.Time `json:"createdAt"`
	Compressed  bool      `json:"compressed"`
}

func fmtSSTMetaPath(dir, id string) string  { return path.Join(dir, id+".meta") }
func fmtSSTBloomPath(dir, id string) string { return path.Join(dir, id+".bloom") }
func fmtSSTDataPath(dir, id string) string  { return path.Join(dir, id+".data") }
