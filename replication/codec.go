package replication

import "encoding/json"

// Codec encodes records for byte-oriented transports.
// Encoded records must not contain a newline, which delimits them on the wire.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec encodes records as single-line JSON.
type JSONCodec struct{}

var _ Codec = JSONCodec{}

// Marshal implements Codec.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Codec.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
