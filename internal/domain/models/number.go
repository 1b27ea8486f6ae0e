package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// Number is a lenient numeric request field. Form-style clients send numbers
// as strings, so both "12.5" and 12.5 decode. Null, an empty string or an
// absent key leave Set false; anything that is present but not a finite
// number leaves Valid false.
type Number struct {
	Value float64
	Set   bool
	Valid bool
}

// NewNumber returns a present, valid Number.
func NewNumber(v float64) Number {
	return Number{Value: v, Set: true, Valid: true}
}

// Float returns the parsed value, or 0 for missing and malformed input.
func (n Number) Float() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

// Ptr returns nil when the field was not supplied.
func (n Number) Ptr() *float64 {
	if !n.Set {
		return nil
	}
	v := n.Float()
	return &v
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case float64:
		n.Value, n.Set, n.Valid = t, true, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		n.Set = true
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			n.Value, n.Valid = f, true
		}
	default:
		n.Set = true
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

// Flag is a lenient boolean request field accepting JSON booleans, the
// numbers 1 and 0, and the strings "true", "false", "1" and "0".
type Flag struct {
	Value bool
	Set   bool
	Valid bool
}

// NewFlag returns a present, valid Flag.
func NewFlag(v bool) Flag {
	return Flag{Value: v, Set: true, Valid: true}
}

// Bool reports the flag value; malformed input reads as false.
func (f Flag) Bool() bool {
	return f.Valid && f.Value
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = Flag{}

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case bool:
		f.Value, f.Set, f.Valid = t, true, true
	case float64:
		f.Set = true
		if t == 0 || t == 1 {
			f.Value, f.Valid = t == 1, true
		}
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if s == "" {
			return nil
		}
		f.Set = true
		switch s {
		case "true", "1":
			f.Value, f.Valid = true, true
		case "false", "0":
			f.Valid = true
		}
	default:
		f.Set = true
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}
