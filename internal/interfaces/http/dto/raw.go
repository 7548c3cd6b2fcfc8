package dto

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errNotObject = errors.New("expected a JSON object")

// RawObject is a JSON object kept undecoded so it can be merged over a
// stored record. null decodes to an empty RawObject.
type RawObject json.RawMessage

// UnmarshalJSON accepts objects and null only
func (r *RawObject) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errNotObject
	}
	*r = append((*r)[:0], trimmed...)
	return nil
}

// MarshalJSON writes the object back unchanged, or null when empty
func (r RawObject) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// Raw returns the object as json.RawMessage
func (r RawObject) Raw() json.RawMessage {
	return json.RawMessage(r)
}

// RawItems converts a list of objects for the aggregate services
func RawItems(items []RawObject) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		out = append(out, item.Raw())
	}
	return out
}
