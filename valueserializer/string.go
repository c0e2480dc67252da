package valueserializer

import "fmt"

// StringSerializer serializes values as UTF-8 text. value is converted
// via fmt.Sprintf("%v", ...) unless it is already a string.
type StringSerializer struct{}

var _ Serializer = StringSerializer{}

func (StringSerializer) Serialize(value any) ([]byte, error) {
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}
	return []byte(fmt.Sprintf("%v", value)), nil
}

func (StringSerializer) Deserialize(b []byte) (any, error) {
	return string(b), nil
}
