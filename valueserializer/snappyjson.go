package valueserializer

import (
	"encoding/json"

	"github.com/golang/snappy"
)

// SnappyJSONSerializer is JSONSerializer followed by snappy block
// compression. It suits larger or repetitive structured values, where
// the compression ratio offsets the extra CPU cost.
type SnappyJSONSerializer struct{}

var _ Serializer = SnappyJSONSerializer{}

func (SnappyJSONSerializer) Serialize(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, raw), nil
}

func (SnappyJSONSerializer) Deserialize(b []byte) (any, error) {
	raw, err := snappy.Decode(nil, b)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
