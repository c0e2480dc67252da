package valueserializer

// Serializer converts a cell value to and from the bytes stored in the
// engine. Implementations must be safe for concurrent use.
type Serializer interface {
	// Serialize encodes value into bytes for storage.
	Serialize(value any) ([]byte, error)

	// Deserialize decodes bytes previously produced by Serialize. The
	// concrete type returned is implementation-defined: StringSerializer
	// returns a string, JSONSerializer and SnappyJSONSerializer return
	// whatever encoding/json would unmarshal the bytes into (so a plain
	// any, typically map[string]any, []any, float64, string, bool, or
	// nil, unless the caller re-marshals into a concrete type).
	Deserialize(b []byte) (any, error)
}
