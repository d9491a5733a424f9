package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/signadot/viewd/record"
)

// Decode decodes a single JSON or YAML document into a canonical value.
func Decode(data []byte, f Format) (any, error) {
	var v any
	switch f {
	case JSONFormat:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, fmt.Errorf("failed to decode json: trailing data")
		}
	case YAMLFormat:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, f)
	}
	return record.Normalize(v)
}

// DecodeReader reads r fully and decodes it.
func DecodeReader(r io.Reader, f Format) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data, f)
}
