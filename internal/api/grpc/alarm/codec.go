package alarm

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the content subtype negotiated by clients ("application/grpc+json").
const codecName = "json"

// jsonCodec marshals messages with encoding/json.
type jsonCodec struct{}

//nolint:gochecknoinits // Codecs must be registered before any server or client is created.
func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// Marshal encodes v as JSON.
func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Name returns the content subtype of the codec.
func (jsonCodec) Name() string {
	return codecName
}
