package valueserializer

import (
	"reflect"
	"testing"
)

// testSerializers mirrors the across-implementation table pattern used for
// conformance testing a swappable serializer: each implementation is run
// through the same cases.
var testSerializers = map[string]Serializer{
	"JSON":       JSONSerializer{},
	"SnappyJSON": SnappyJSONSerializer{},
}

func TestJSONCompatibleSerializersRoundTrip(t *testing.T) {
	cases := []any{
		"plain string",
		float64(42),
		true,
		nil,
		map[string]any{"a": float64(1), "b": "two"},
		[]any{float64(1), float64(2), float64(3)},
	}

	for name, s := range testSerializers {
		t.Run(name, func(t *testing.T) {
			for i, v := range cases {
				data, err := s.Serialize(v)
				if err != nil {
					t.Fatalf("case %d: serialize failed: %v", i, err)
				}

				got, err := s.Deserialize(data)
				if err != nil {
					t.Fatalf("case %d: deserialize failed: %v", i, err)
				}

				if !reflect.DeepEqual(got, v) {
					t.Fatalf("case %d: expected %#v, got %#v", i, v, got)
				}
			}
		})
	}
}

func TestStringSerializer(t *testing.T) {
	s := StringSerializer{}

	t.Run("serializes a string as-is", func(t *testing.T) {
		data, err := s.Serialize("hello")
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "hello" {
			t.Fatalf("expected %q, got %q", "hello", data)
		}
	})

	t.Run("formats a non-string value", func(t *testing.T) {
		data, err := s.Serialize(42)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "42" {
			t.Fatalf("expected %q, got %q", "42", data)
		}
	})

	t.Run("round-trips through deserialize as a string", func(t *testing.T) {
		data, err := s.Serialize("round trip")
		if err != nil {
			t.Fatal(err)
		}
		v, err := s.Deserialize(data)
		if err != nil {
			t.Fatal(err)
		}
		if v != "round trip" {
			t.Fatalf("expected %q, got %q", "round trip", v)
		}
	})
}

func TestSnappyJSONSerializerCompresses(t *testing.T) {
	s := SnappyJSONSerializer{}
	plain := JSONSerializer{}

	repetitive := map[string]any{"value": ""}
	big := make([]byte, 4096)
	for i := range big {
		big[i] = 'a'
	}
	repetitive["value"] = string(big)

	compressed, err := s.Serialize(repetitive)
	if err != nil {
		t.Fatal(err)
	}
	uncompressed, err := plain.Serialize(repetitive)
	if err != nil {
		t.Fatal(err)
	}

	if len(compressed) >= len(uncompressed) {
		t.Fatalf("expected compressed output (%d bytes) to be smaller than plain JSON (%d bytes)", len(compressed), len(uncompressed))
	}
}
