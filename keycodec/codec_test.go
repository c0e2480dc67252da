package keycodec

import (
	"bytes"
	"testing"
)

func TestSeparatorCodec(t *testing.T) {
	t.Run("round-trips a full key", func(t *testing.T) {
		c := SeparatorCodec{}
		k := c.Encode("row1", "colA", 1678886400000)

		row, col, ts, err := c.Decode(k)
		if err != nil {
			t.Fatal(err)
		}
		if row != "row1" || col != "colA" || ts != 1678886400000 {
			t.Fatalf("got (%q, %q, %d)", row, col, ts)
		}
	})

	t.Run("later timestamp sorts first", func(t *testing.T) {
		c := SeparatorCodec{}
		ts1 := uint64(1678886400000)
		ts2 := uint64(1678886460000) // one minute later

		k1 := c.Encode("r", "c", ts1)
		k2 := c.Encode("r", "c", ts2)

		if bytes.Compare(k2, k1) >= 0 {
			t.Fatalf("expected key for the later timestamp to sort first")
		}
	})

	t.Run("cell prefix is shared by every version of a cell", func(t *testing.T) {
		c := SeparatorCodec{}
		prefix := c.CellPrefix("row1", "colA")
		k := c.Encode("row1", "colA", 42)
		if !bytes.HasPrefix(k, prefix) {
			t.Fatalf("expected %x to have prefix %x", k, prefix)
		}
	})

	t.Run("row prefix is shared by every cell of a row and no other row", func(t *testing.T) {
		c := SeparatorCodec{}
		prefix := c.RowPrefix("row1")
		k := c.Encode("row1", "colA", 42)
		other := c.Encode("row10", "colA", 42)

		if !bytes.HasPrefix(k, prefix) {
			t.Fatalf("expected %x to have prefix %x", k, prefix)
		}
		if bytes.HasPrefix(other, prefix) {
			t.Fatalf("expected %x to NOT have prefix %x (row1 vs row10 boundary)", other, prefix)
		}
	})

	t.Run("rejects malformed keys", func(t *testing.T) {
		c := SeparatorCodec{}
		cases := [][]byte{
			[]byte("row1\x00colA"),
			append([]byte("row1\x00colA\x00"), make([]byte, 7)...),
			nil,
		}
		for _, b := range cases {
			if _, _, _, err := c.Decode(b); err == nil {
				t.Fatalf("expected decode of %x to fail", b)
			}
		}
	})

	t.Run("detects the separator byte in a candidate row or column", func(t *testing.T) {
		if !HasSeparator("row\x00with\x00sep") {
			t.Fatal("expected separator to be detected")
		}
		if HasSeparator("clean") {
			t.Fatal("did not expect separator to be detected")
		}
	})
}

func TestLengthPrefixedCodec(t *testing.T) {
	t.Run("round-trips a full key", func(t *testing.T) {
		c := LengthPrefixedCodec{}
		k := c.Encode("row1", "colA", 1678886400000)

		row, col, ts, err := c.Decode(k)
		if err != nil {
			t.Fatal(err)
		}
		if row != "row1" || col != "colA" || ts != 1678886400000 {
			t.Fatalf("got (%q, %q, %d)", row, col, ts)
		}
	})

	t.Run("round-trips row and column containing the separator byte", func(t *testing.T) {
		c := LengthPrefixedCodec{}
		k := c.Encode("row\x00with\x00nulls", "col\x00A", 7)

		row, col, ts, err := c.Decode(k)
		if err != nil {
			t.Fatal(err)
		}
		if row != "row\x00with\x00nulls" || col != "col\x00A" || ts != 7 {
			t.Fatalf("got (%q, %q, %d)", row, col, ts)
		}
	})

	t.Run("later timestamp sorts first", func(t *testing.T) {
		c := LengthPrefixedCodec{}
		ts1 := uint64(1678886400000)
		ts2 := uint64(1678886460000)

		k1 := c.Encode("r", "c", ts1)
		k2 := c.Encode("r", "c", ts2)

		if bytes.Compare(k2, k1) >= 0 {
			t.Fatalf("expected key for the later timestamp to sort first")
		}
	})

	t.Run("cell prefix is shared by every version of a cell", func(t *testing.T) {
		c := LengthPrefixedCodec{}
		prefix := c.CellPrefix("row1", "colA")
		k := c.Encode("row1", "colA", 42)
		if !bytes.HasPrefix(k, prefix) {
			t.Fatalf("expected %x to have prefix %x", k, prefix)
		}
	})

	t.Run("rejects malformed keys", func(t *testing.T) {
		c := LengthPrefixedCodec{}
		full := c.Encode("row1", "colA", 42)

		cases := [][]byte{
			full[:len(full)-1],
			append(append([]byte{}, full...), 0), // one extra trailing byte
			{0, 0, 0, 5, 'a', 'b', 'c'},          // declares 5, provides 3
			nil,
		}
		for _, b := range cases {
			if _, _, _, err := c.Decode(b); err == nil {
				t.Fatalf("expected decode of %x to fail", b)
			}
		}
	})
}
