// Package keycodec maps (row, column, timestamp) triples onto ordered
// byte keys. The mapping is chosen so that a forward lexicographic scan of
// one cell's keys yields its versions newest-first, and so that every
// (row), (row, column), or (row, column, time-window) read is served by a
// single bounded forward iteration -- see Codec's doc comment for the
// exact ordering contract implementations must satisfy.
package keycodec

import (
	"encoding/binary"
	"fmt"
)

// maxUint64 inverts a timestamp so that ascending byte order of the
// inverted value corresponds to descending chronological order.
const maxUint64 = ^uint64(0)

// Codec encodes and decodes the keys stored in one dataset's engine. Any
// implementation MUST satisfy the ordering contract:
//
// For any fixed (row, column), Encode(row, column, t1) < Encode(row,
// column, t2) (lexicographic byte comparison) iff t1 > t2. For any two
// distinct (row, column) pairs, all keys of one pair are contiguous and
// non-interleaved with those of the other, and the boundary is decidable
// by decoding.
//
// The active codec is fixed per database open; mixing codecs within one
// dataset is the caller's responsibility to avoid (Codec does not detect
// it).
type Codec interface {
	// Encode produces the full key for one version of a cell.
	Encode(row, column string, timestampMS uint64) []byte

	// Decode reverses Encode. It returns an error if b is not a
	// well-formed full key produced by this codec.
	Decode(b []byte) (row, column string, timestampMS uint64, err error)

	// RowPrefix returns a prefix shared by every key of (row, *, *) and
	// no other row.
	RowPrefix(row string) []byte

	// CellPrefix returns a prefix shared by every key of (row, column, *)
	// and no other cell.
	CellPrefix(row, column string) []byte
}

// invertTimestamp returns the big-endian encoding of the inverted
// timestamp used by every codec in this package.
func invertTimestamp(timestampMS uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], maxUint64-timestampMS)
	return b[:]
}

func revertTimestamp(inverted uint64) uint64 {
	return maxUint64 - inverted
}

// ErrMalformedKey is wrapped into errors returned by Decode when b cannot
// be parsed as a key produced by the codec.
var ErrMalformedKey = fmt.Errorf("keycodec: malformed key")
