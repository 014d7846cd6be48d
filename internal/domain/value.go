package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeValue decodes one JSON value. Numbers stay json.Number so integers
// beyond 2^53 keep every digit.
func DecodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// NormalizeValue returns a fresh copy of v in the shapes DecodeValue
// produces: maps, []any, json.Number, string, bool and nil. Values JSON
// cannot represent (channels, functions, NaN) are an error.
func NormalizeValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return DecodeValue(data)
}

// putExtra decodes raw into extra[key], creating the map on first use
func putExtra(extra *map[string]any, key string, raw json.RawMessage) error {
	v, err := DecodeValue(raw)
	if err != nil {
		return err
	}
	if *extra == nil {
		*extra = make(map[string]any)
	}
	(*extra)[key] = v
	return nil
}

// documentOf starts a JSON object from the unknown members
func documentOf(extra map[string]any, known int) map[string]any {
	out := make(map[string]any, len(extra)+known)
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// decodeOptionalString decodes an optional string member. kept reports a
// member that was present but empty, which a bare string cannot tell apart
// from an absent one.
func decodeOptionalString(raw json.RawMessage, dst *string, kept *bool) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	*kept = *dst == ""
	return nil
}
