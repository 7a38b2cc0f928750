// Package yaml adapts YAML wire data to schema loading and dumping,
// using gopkg.in/yaml.v3.
package yaml

import (
	"bytes"
	"context"
	"errors"
	"io"

	yamlv3 "gopkg.in/yaml.v3"

	lollipop "github.com/maximkulkin/lollipop"
)

// Decode parses a single YAML document into the generic value shapes schemas
// expect. Mapping keys are normalized to strings; non-string keys are
// dropped.
func Decode(data []byte) (any, error) {
	var v any
	if err := yamlv3.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

// DecodeAll parses a multi-document YAML stream, one normalized value per
// document.
func DecodeAll(r io.Reader) ([]any, error) {
	dec := yamlv3.NewDecoder(r)
	var docs []any
	for {
		var v any
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		docs = append(docs, normalize(v))
	}
	return docs, nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalize(t[i])
		}
		return arr
	default:
		return v
	}
}

// Load decodes a YAML document and loads it through t.
func Load(ctx context.Context, t lollipop.Type, data []byte) (any, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return t.Load(ctx, v)
}

// Dump serializes value through t and encodes the result as YAML.
// Ordered object dumps keep their field order in the output.
func Dump(ctx context.Context, t lollipop.Type, value any) ([]byte, error) {
	v, err := t.Dump(ctx, value)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
