package models

import (
	"bytes"
	"encoding/json"
)

// Label is a free-text field (a category, date or description) that the
// backend may send as any JSON value. Strings are kept verbatim, other
// values keep their literal JSON text and null becomes "". Decoding a Label
// never fails on the value's type.
type Label string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*l = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Label(s)
	default:
		*l = Label(b)
	}
	return nil
}

func (l Label) String() string { return string(l) }
