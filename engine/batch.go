package engine

// Batch is a group of put/delete operations applied atomically by
// DB.Apply. A Batch is not safe for concurrent use; build it on one
// goroutine and hand it to Apply.
type Batch struct {
	ops []Record
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Put stages a write of key -> value.
func (b *Batch) Put(key, value []byte) {
	b.ops = append(b.ops, Record{Key: key, Value: value})
}

// Delete stages a tombstone for key.
func (b *Batch) Delete(key []byte) {
	b.ops = append(b.ops, Record{Key: key, Tomb: true})
}

// Len returns the number of staged operations.
func (b *Batch) Len() int { return len(b.ops) }
