package ridgedb

import (
	"fmt"

	"github.com/avoss/ridgedb/engine"
	"github.com/avoss/ridgedb/keycodec"
	"github.com/avoss/ridgedb/rerr"
	"github.com/avoss/ridgedb/valueserializer"
)

// Version is one (timestamp, value) entry of a cell.
type Version struct {
	TimestampMS uint64
	Value       any
}

// readEngine translates GetRow calls into one or more bounded forward
// iterations over a resolved dataset handle.
type readEngine struct {
	codec      keycodec.Codec
	serializer valueserializer.Serializer
}

func newReadEngine(codec keycodec.Codec, serializer valueserializer.Serializer) *readEngine {
	return &readEngine{codec: codec, serializer: serializer}
}

// getRowParams bundles the get_row arguments; columns == nil means "all
// columns of the row", a zero-length non-nil slice means "no columns"
// (open question 1 of the design notes: an explicit empty sequence
// returns an empty mapping, distinct from an absent argument).
type getRowParams struct {
	columns     []string
	numVersions int
	startTSMS   *uint64
	endTSMS     *uint64
}

func (r *readEngine) getRow(db *engine.DB, row string, p getRowParams) (map[string][]Version, error) {
	result := make(map[string][]Version)

	if p.startTSMS != nil && p.endTSMS != nil && *p.startTSMS > *p.endTSMS {
		return result, nil
	}

	if p.columns != nil && len(p.columns) == 0 {
		return result, nil
	}

	if p.columns == nil {
		return r.scanAllColumns(db, row, p)
	}
	return r.scanNamedColumns(db, row, p)
}

// scanAllColumns runs one forward iteration over row_prefix(row),
// grouping decoded keys by column as they're encountered. Because keys
// sort column-major then newest-first within a column, each column's
// entries arrive contiguously and already newest-first.
func (r *readEngine) scanAllColumns(db *engine.DB, row string, p getRowParams) (map[string][]Version, error) {
	prefix := r.codec.RowPrefix(row)
	it, err := db.Iterator(prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rerr.ErrStorage, err)
	}
	defer it.Close()

	result := make(map[string][]Version)
	var curColumn string
	var curCount int
	var curDone bool

	for it.Valid() {
		key := it.Key()
		if !hasPrefix(key, prefix) {
			break
		}

		_, column, ts, err := r.codec.Decode(key)
		if err != nil {
			it.Next()
			continue
		}

		if column != curColumn {
			curColumn = column
			curCount = 0
			curDone = false
		}
		if curDone {
			it.Next()
			continue
		}

		if p.startTSMS != nil && ts < *p.startTSMS {
			curDone = true
			it.Next()
			continue
		}
		if p.endTSMS != nil && ts > *p.endTSMS {
			it.Next()
			continue
		}

		v, err := r.decodeValue(it.Value())
		if err != nil {
			it.Next()
			continue
		}

		result[column] = append(result[column], Version{TimestampMS: ts, Value: v})
		curCount++

		if curCount >= p.numVersions && p.startTSMS == nil {
			curDone = true
		}

		it.Next()
	}

	for col, versions := range result {
		if len(versions) > p.numVersions {
			result[col] = versions[:p.numVersions]
		}
	}
	return result, nil
}

// scanNamedColumns runs one forward iteration per requested column, each
// seeked at cell_prefix(row, column) or, when end_ts_ms is present, fast
// forwarded to encode(row, column, end_ts_ms) -- the first key whose
// timestamp is <= end_ts_ms by construction of the inverted ordering.
func (r *readEngine) scanNamedColumns(db *engine.DB, row string, p getRowParams) (map[string][]Version, error) {
	result := make(map[string][]Version)

	for _, column := range p.columns {
		versions, err := r.scanCell(db, row, column, p)
		if err != nil {
			return nil, err
		}
		if len(versions) > 0 {
			result[column] = versions
		}
	}
	return result, nil
}

func (r *readEngine) scanCell(db *engine.DB, row, column string, p getRowParams) ([]Version, error) {
	prefix := r.codec.CellPrefix(row, column)

	seek := prefix
	if p.endTSMS != nil {
		seek = r.codec.Encode(row, column, *p.endTSMS)
	}

	it, err := db.Iterator(seek)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rerr.ErrStorage, err)
	}
	defer it.Close()

	var versions []Version
	for it.Valid() {
		key := it.Key()
		if !hasPrefix(key, prefix) {
			break
		}

		_, _, ts, err := r.codec.Decode(key)
		if err != nil {
			it.Next()
			continue
		}

		if p.startTSMS != nil && ts < *p.startTSMS {
			break
		}

		v, err := r.decodeValue(it.Value())
		if err != nil {
			it.Next()
			continue
		}

		versions = append(versions, Version{TimestampMS: ts, Value: v})

		if len(versions) >= p.numVersions && p.startTSMS == nil {
			break
		}

		it.Next()
	}

	if len(versions) > p.numVersions {
		versions = versions[:p.numVersions]
	}
	return versions, nil
}

func (r *readEngine) decodeValue(b []byte) (any, error) {
	v, err := r.serializer.Deserialize(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rerr.ErrSerialization, err)
	}
	return v, nil
}
