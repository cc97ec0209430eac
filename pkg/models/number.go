// Package models defines the data structures exchanged with the advisory backend.
package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is the display marker for absent values.
const NotAvailable = "N/A"

// Number is a numeric JSON value kept exactly as the backend sent it.
//
// The backend is not trusted to be consistent: a monetary field may arrive
// as a JSON number, a numeric string, a non-numeric string or null. Number
// never rounds or reformats; it only remembers the literal text.
type Number struct {
	raw    string
	set    bool
	quoted bool // arrived as a JSON string
}

// NewNumber returns a Number holding the literal s.
func NewNumber(s string) Number {
	_, err := decimal.NewFromString(s)
	return Number{raw: s, set: true, quoted: err != nil}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number{raw: s, set: true, quoted: true}
		return nil
	}
	*n = Number{raw: string(b), set: true}
	return nil
}

// MarshalJSON implements json.Marshaler. Numbers are written back verbatim.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	if !n.quoted && json.Valid([]byte(n.raw)) {
		return []byte(n.raw), nil
	}
	return json.Marshal(n.raw)
}

// IsSet reports whether the value was present and not null.
func (n Number) IsSet() bool { return n.set }

// String returns the literal text, or "" when absent.
func (n Number) String() string { return n.raw }

// Display returns the literal text, or NotAvailable when absent or blank.
func (n Number) Display() string {
	if !n.set || strings.TrimSpace(n.raw) == "" {
		return NotAvailable
	}
	return n.raw
}

// Decimal parses the value. ok is false for absent or non-numeric values.
func (n Number) Decimal() (d decimal.Decimal, ok bool) {
	if !n.set {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(n.raw))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Float returns the value as a float64 for charting.
func (n Number) Float() (float64, bool) {
	d, ok := n.Decimal()
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// Sign returns -1, 0 or +1; non-numeric values report 0.
func (n Number) Sign() int {
	d, ok := n.Decimal()
	if !ok {
		return 0
	}
	return d.Sign()
}

// ID is an identifier that the backend may encode as a number or a string.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(b)
	return nil
}

func (id ID) String() string { return string(id) }
