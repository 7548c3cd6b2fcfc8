package shared

import (
	"bytes"
	"time"
)

// Timestamp is a time.Time that decodes "" and null as the zero time and
// encodes the zero time as "". Clients post "" for dates not yet set.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// timestampLayouts are tried in order after RFC 3339
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts RFC 3339, a bare date or datetime, "" and null
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		t.Time = time.Time{}
		return nil
	}
	err := t.Time.UnmarshalJSON(data)
	if err == nil || len(data) < 2 || data[0] != '"' {
		return err
	}
	raw := string(data[1 : len(data)-1])
	for _, layout := range timestampLayouts {
		if parsed, perr := time.Parse(layout, raw); perr == nil {
			t.Time = parsed
			return nil
		}
	}
	return err
}

// MarshalJSON writes "" for the zero time
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return t.Time.MarshalJSON()
}
