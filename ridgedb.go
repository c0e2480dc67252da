// Package ridgedb implements a wide-column storage layer over an
// embedded LSM-tree engine: rows addressed by string keys, each row
// holding many columns, each (row, column) cell holding multiple
// timestamp-versioned values, isolated by dataset.
//
// The zero-value entry point is Open. A DB is safe for concurrent use
// from multiple goroutines.
package ridgedb

import (
	"fmt"
	"sync"

	"github.com/avoss/ridgedb/dataset"
	"github.com/avoss/ridgedb/keycodec"
	"github.com/avoss/ridgedb/rerr"
)

// DB is the database facade: lifecycle, request validation, and dispatch
// to the write and read engines.
type DB struct {
	mu     sync.Mutex
	closed bool

	datasets *dataset.Manager
	write    *writeEngine
	read     *readEngine
	codec    keycodec.Codec
}

// Open opens (creating on first use) the database rooted at path, with
// declared naming every non-default dataset that must exist. opts
// carries the active serializer, codec, clock and engine passthrough
// options; the zero Options is equivalent to DefaultOptions().
func Open(path string, declared []string, opts Options) (*DB, error) {
	opts = opts.withDefaults()

	mgr, err := dataset.Open(path, declared, opts.Engine)
	if err != nil {
		return nil, err
	}

	return &DB{
		datasets: mgr,
		write:    newWriteEngine(opts.Codec, opts.Serializer, opts.Clock),
		read:     newReadEngine(opts.Codec, opts.Serializer),
		codec:    opts.Codec,
	}, nil
}

// Close flushes and releases every dataset handle. Subsequent operations
// on this DB fail with ErrNotOpen.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.datasets.Close()
}

func (d *DB) enter() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return rerr.ErrNotOpen
	}
	return nil
}

func validateRow(row string, codec keycodec.Codec) error {
	if row == "" {
		return fmt.Errorf("%w: row key must not be empty", rerr.ErrInvalidRequest)
	}
	if _, ok := codec.(keycodec.SeparatorCodec); ok && keycodec.HasSeparator(row) {
		return fmt.Errorf("%w: row key contains the separator byte", rerr.ErrInvalidRequest)
	}
	return nil
}

func validateColumn(column string, codec keycodec.Codec) error {
	if column == "" {
		return fmt.Errorf("%w: column name must not be empty", rerr.ErrInvalidRequest)
	}
	if _, ok := codec.(keycodec.SeparatorCodec); ok && keycodec.HasSeparator(column) {
		return fmt.Errorf("%w: column name contains the separator byte", rerr.ErrInvalidRequest)
	}
	return nil
}

// PutRow writes items atomically to row in the named dataset (empty
// dataset means the implicit default). Each item's value is run through
// the configured ValueSerializer; an omitted timestamp is assigned the
// configured Clock's current time at call time.
func (d *DB) PutRow(row string, items []Item, datasetName string) error {
	if err := d.enter(); err != nil {
		return err
	}
	if err := validateRow(row, d.codec); err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: put_row requires at least one item", rerr.ErrInvalidRequest)
	}
	for _, it := range items {
		if err := validateColumn(it.Column, d.codec); err != nil {
			return err
		}
	}

	db, err := d.datasets.Resolve(datasetName)
	if err != nil {
		return err
	}
	return d.write.putRow(db, row, items)
}

// DeleteRow deletes data from row in the named dataset per the
// delete_row argument-combination table: no columns and no timestamps
// deletes the whole row; columns without timestamps deletes those
// columns entirely; columns with timestamps deletes the named point
// versions; timestamps without columns is rejected as ErrInvalidRequest.
func (d *DB) DeleteRow(row string, columns []string, timestampsMS []uint64, datasetName string) error {
	if err := d.enter(); err != nil {
		return err
	}
	if err := validateRow(row, d.codec); err != nil {
		return err
	}
	for _, col := range columns {
		if err := validateColumn(col, d.codec); err != nil {
			return err
		}
	}

	db, err := d.datasets.Resolve(datasetName)
	if err != nil {
		return err
	}
	return d.write.deleteRow(db, row, columns, timestampsMS)
}

// GetRowOptions carries the optional arguments to GetRow.
type GetRowOptions struct {
	// Columns lists the columns to read. nil means every column of the
	// row; a non-nil empty slice means no columns, returning an empty
	// mapping.
	Columns []string

	// NumVersions caps the per-column result length, applied after time
	// filtering. Must be positive; defaults to 1 when zero.
	NumVersions int

	// StartTSMS and EndTSMS are inclusive time bounds. Either may be
	// nil. If both are set and StartTSMS > EndTSMS, GetRow returns an
	// empty mapping.
	StartTSMS *uint64
	EndTSMS   *uint64

	// Dataset names the dataset to read from; empty means the implicit
	// default.
	Dataset string
}

// GetRow reads row, returning a mapping of column name to its surviving
// versions, newest-first. Columns with zero surviving versions are
// omitted rather than mapped to an empty slice.
func (d *DB) GetRow(row string, opts GetRowOptions) (map[string][]Version, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	if err := validateRow(row, d.codec); err != nil {
		return nil, err
	}

	numVersions := opts.NumVersions
	if numVersions == 0 {
		numVersions = 1
	}
	if numVersions < 0 {
		return nil, fmt.Errorf("%w: num_versions must be positive", rerr.ErrInvalidRequest)
	}
	for _, col := range opts.Columns {
		if err := validateColumn(col, d.codec); err != nil {
			return nil, err
		}
	}

	db, err := d.datasets.Resolve(opts.Dataset)
	if err != nil {
		return nil, err
	}

	return d.read.getRow(db, row, getRowParams{
		columns:     opts.Columns,
		numVersions: numVersions,
		startTSMS:   opts.StartTSMS,
		endTSMS:     opts.EndTSMS,
	})
}
