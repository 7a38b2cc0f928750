// Package json adapts JSON wire data to schema loading and dumping,
// using github.com/goccy/go-json for decoding and encoding.
package json

import (
	"bytes"
	"context"
	"io"

	gojson "github.com/goccy/go-json"

	lollipop "github.com/maximkulkin/lollipop"
)

// Decode parses JSON bytes into the generic value shapes schemas expect:
// map[string]any, []any, string, bool, nil and json.Number for numbers.
// Numbers stay textual so integer inputs are not silently widened to
// float64 before the schema sees them.
func Decode(data []byte) (any, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader is Decode over a stream.
func DecodeReader(r io.Reader) (any, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Load decodes JSON bytes and loads them through t.
func Load(ctx context.Context, t lollipop.Type, data []byte) (any, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return t.Load(ctx, v)
}

// LoadReader decodes a JSON stream and loads it through t.
func LoadReader(ctx context.Context, t lollipop.Type, r io.Reader) (any, error) {
	v, err := DecodeReader(r)
	if err != nil {
		return nil, err
	}
	return t.Load(ctx, v)
}

// Dump serializes value through t and encodes the result as JSON.
// Ordered object dumps keep their field order in the output.
func Dump(ctx context.Context, t lollipop.Type, value any) ([]byte, error) {
	v, err := t.Dump(ctx, value)
	if err != nil {
		return nil, err
	}
	return gojson.Marshal(v)
}
