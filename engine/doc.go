// Package engine provides an embedded, ordered, byte-key key-value store.
//
// The engine is the narrow collaborator the wide-column layer builds on: a
// memtable backed by a write-ahead log, flushed into leveled sorted-string
// tables, merged by compaction. It knows nothing about rows, columns,
// timestamps, or datasets -- it stores and iterates raw bytes in
// lexicographic order and commits batches of puts/deletes atomically.
//
// # Disk Layout
//
// A DB is stored with the following structure:
//
//	path/to/db/
//	├── wal.log
//	├── levels/
//	│   ├── {{ LEVEL_NUM }}/
//	│   │   ├── {{ ID_OF_SST }}.data
//	│   │   ├── {{ ID_OF_SST }}.meta
//	│   │   ├── {{ ID_OF_SST }}.bloom
//
// LEVEL_NUM is the level number, width-4, zero-padded. There are zero or
// more levels. ID_OF_SST is the UUID of the table; each table has a data
// file, a meta file, and a bloom filter file.
package engine
