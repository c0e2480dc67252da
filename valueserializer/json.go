package valueserializer

import "encoding/json"

// JSONSerializer serializes values using encoding/json. Any
// JSON-marshalable Go value is accepted.
type JSONSerializer struct{}

var _ Serializer = JSONSerializer{}

func (JSONSerializer) Serialize(value any) ([]byte, error) {
	return json.Marshal(value)
}

func (JSONSerializer) Deserialize(b []byte) (any, error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
