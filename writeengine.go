package ridgedb

import (
	"fmt"

	"github.com/avoss/ridgedb/engine"
	"github.com/avoss/ridgedb/keycodec"
	"github.com/avoss/ridgedb/rerr"
	"github.com/avoss/ridgedb/valueserializer"
)

// Item is one (column, value, timestamp) triple supplied to PutRow. A
// zero TimestampMS with HasTimestamp false means "assign the clock's
// current time at batch assembly".
type Item struct {
	Column       string
	Value        any
	TimestampMS  uint64
	HasTimestamp bool
}

// writeEngine translates PutRow/DeleteRow calls into atomic engine
// batches against one resolved dataset handle.
type writeEngine struct {
	codec      keycodec.Codec
	serializer valueserializer.Serializer
	clock      Clock
}

func newWriteEngine(codec keycodec.Codec, serializer valueserializer.Serializer, clock Clock) *writeEngine {
	return &writeEngine{codec: codec, serializer: serializer, clock: clock}
}

func (w *writeEngine) putRow(db *engine.DB, row string, items []Item) error {
	now := w.clock.NowMS()

	batch := engine.NewBatch()
	for _, it := range items {
		ts := it.TimestampMS
		if !it.HasTimestamp {
			ts = now
		}

		val, err := w.serializer.Serialize(it.Value)
		if err != nil {
			return fmt.Errorf("%w: column %q: %v", rerr.ErrSerialization, it.Column, err)
		}
		if len(val) == 0 && !isNonEmptyInput(it.Value) {
			return fmt.Errorf("%w: column %q: empty values are not permitted", rerr.ErrInvalidRequest, it.Column)
		}

		key := w.codec.Encode(row, it.Column, ts)
		batch.Put(key, val)
	}

	if err := db.Apply(batch); err != nil {
		return fmt.Errorf("%w: %v", rerr.ErrStorage, err)
	}
	return nil
}

// isNonEmptyInput reports whether value is something other than the
// canonical "empty" inputs (nil, ""). Used to allow through the rare
// serializer that legitimately produces a zero-length encoding from a
// non-empty input, while still rejecting a bare empty value.
func isNonEmptyInput(value any) bool {
	if value == nil {
		return false
	}
	if s, ok := value.(string); ok {
		return s != ""
	}
	return true
}

// deleteRow implements the delete_row argument-combination table:
//
//	columns absent, timestamps absent  -> delete everything under row_prefix(row)
//	columns present, timestamps absent -> delete everything under cell_prefix(row, column) per column
//	columns present, timestamps present -> delete encode(row, column, ts) per (column, ts) pair
//	columns absent, timestamps present  -> ErrInvalidRequest (ambiguous)
func (w *writeEngine) deleteRow(db *engine.DB, row string, columns []string, timestampsMS []uint64) error {
	if len(columns) == 0 && len(timestampsMS) > 0 {
		return fmt.Errorf("%w: specific_timestamps_ms without column_names is ambiguous", rerr.ErrInvalidRequest)
	}

	batch := engine.NewBatch()

	switch {
	case len(columns) == 0 && len(timestampsMS) == 0:
		if err := w.collectPrefix(db, batch, w.codec.RowPrefix(row)); err != nil {
			return err
		}

	case len(columns) > 0 && len(timestampsMS) == 0:
		for _, col := range columns {
			if err := w.collectPrefix(db, batch, w.codec.CellPrefix(row, col)); err != nil {
				return err
			}
		}

	default: // columns present, timestamps present
		for _, col := range columns {
			for _, ts := range timestampsMS {
				batch.Delete(w.codec.Encode(row, col, ts))
			}
		}
	}

	if err := db.Apply(batch); err != nil {
		return fmt.Errorf("%w: %v", rerr.ErrStorage, err)
	}
	return nil
}

// collectPrefix scans every key under prefix and appends a delete for
// each to batch. Range-style deletion is realized as bounded iteration
// plus per-key deletes, since the engine exposes no native range-delete.
func (w *writeEngine) collectPrefix(db *engine.DB, batch *engine.Batch, prefix []byte) error {
	it, err := db.Iterator(prefix)
	if err != nil {
		return fmt.Errorf("%w: %v", rerr.ErrStorage, err)
	}
	defer it.Close()

	for it.Valid() {
		key := it.Key()
		if !hasPrefix(key, prefix) {
			break
		}
		k := make([]byte, len(key))
		copy(k, key)
		batch.Delete(k)
		it.Next()
	}
	return nil
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
