package metadata

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind is the type of a normalized tag value.
type Kind uint8

const (
	KindNumber Kind = iota + 1
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	}
	return "invalid"
}

// Value is a normalized tag value: either a Number or a Text.
type Value struct {
	Kind Kind
	num  float64
	text string
}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{Kind: KindNumber, num: f} }

// Text returns a textual Value.
func Text(s string) Value { return Value{Kind: KindText, text: s} }

// Float returns the numeric value and true if v is a Number.
func (v Value) Float() (float64, bool) {
	return v.num, v.Kind == KindNumber
}

// String returns the text of a Text value, or the shortest decimal form of a
// Number.
func (v Value) String() string {
	if v.Kind == KindNumber {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.text
}

// MarshalJSON encodes a Number as a JSON number and a Text as a JSON string.
// JSON has no NaN or infinity, so a non-finite Number is encoded as its
// string form ("NaN", "+Inf") and decodes back as Text.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindNumber {
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return json.Marshal(v.String())
		}
		return strconv.AppendFloat(nil, v.num, 'g', -1, 64), nil
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*v = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = Text(s)
	return nil
}

// Map holds normalized tags keyed by tag name.
type Map map[string]Value

// Number returns the first of keys present in m as a Number.
// Text values are skipped.
func (m Map) Number(keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if f, ok := v.Float(); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// HasAny reports whether any of keys is present in m.
func (m Map) HasAny(keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
