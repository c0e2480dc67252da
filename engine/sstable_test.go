package engine

import (
	"bytes"
	"os"
	"testing"
)

func TestSSTBuilder(t *testing.T) {
	t.Run("should build a new sstable", func(t *testing.T) {
		d, err := os.MkdirTemp("", "sstable")
		if err != nil {
			t.Fatalf("failed to create tmp dir: %s", err)
		}
		defer os.RemoveAll(d)

		builder, err := newSSTBuilder(d, 1, false)
		if err != nil {
			t.Fatalf("failed to create builder: %s", err)
		}

		minKey, maxKey := []byte("001"), []byte("999")
		records := []Record{
			{Key: minKey, Value: []byte("foo")},
			{Key: []byte("002"), Tomb: true},
			{Key: maxKey, Value: []byte("bar")},
		}

		for _, r := range records {
			if err := builder.add(r); err != nil {
				t.Fatalf("failed to add record: %s", err)
			}
		}

		table, err := builder.finish()
		if err != nil {
			t.Fatalf("failed to finish the builder: %s", err)
		}

		if table.meta.RecordCount != uint64(len(records)) {
			t.Fatalf("expected %d records, got %d", len(records), table.meta.RecordCount)
		}
		if !bytes.Equal(table.meta.MinKey, minKey) {
			t.Fatalf("expected min key %q, got %q", minKey, table.meta.MinKey)
		}
		if !bytes.Equal(table.meta.MaxKey, maxKey) {
			t.Fatalf("expected max key %q, got %q", maxKey, table.meta.MaxKey)
		}

		for _, r := range records {
			if !table.bloom.Test(r.Key) {
				t.Fatalf("key %s should be in bloom filter", r.Key)
			}
		}

		var got []Record
		if err := table.scan(func(r Record) (bool, error) {
			got = append(got, r)
			return false, nil
		}); err != nil {
			t.Fatalf("failed to scan table: %s", err)
		}

		if len(got) != len(records) {
			t.Fatalf("expected %d records, got %d", len(records), len(got))
		}
		for i := range records {
			if !bytes.Equal(records[i].Key, got[i].Key) {
				t.Fatalf("expected key %q, got %q", records[i].Key, got[i].Key)
			}
			if records[i].Tomb != got[i].Tomb {
				t.Fatalf("expected tombstone %t, got %t", records[i].Tomb, got[i].Tomb)
			}
			if !bytes.Equal(records[i].Value, got[i].Value) {
				t.Fatalf("expected value %q, got %q", records[i].Value, got[i].Value)
			}
		}
	})

	t.Run("should round-trip a reloaded, compressed table", func(t *testing.T) {
		d, err := os.MkdirTemp("", "sstable")
		if err != nil {
			t.Fatalf("failed to create tmp dir: %s", err)
		}
		defer os.RemoveAll(d)

		builder, err := newSSTBuilder(d, 0, true)
		if err != nil {
			t.Fatalf("failed to create builder: %s", err)
		}
		if err := builder.add(Record{Key: []byte("a"), Value: []byte("1")}); err != nil {
			t.Fatal(err)
		}
		if err := builder.add(Record{Key: []byte("b"), Value: []byte("2")}); err != nil {
			t.Fatal(err)
		}
		table, err := builder.finish()
		if err != nil {
			t.Fatalf("failed to finish the builder: %s", err)
		}

		reloaded, err := loadSSTable(d, table.id)
		if err != nil {
			t.Fatalf("failed to reload sstable: %s", err)
		}

		r, ok, err := reloaded.get([]byte("b"))
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("expected key b to be found")
		}
		if !bytes.Equal(r.Value, []byte("2")) {
			t.Fatalf("expected value 2, got %q", r.Value)
		}

		_, ok, err = reloaded.get([]byte("z"))
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("expected key z to be absent")
		}
	})
}
