// Package normalize turns loosely typed upstream field values into numbers.
//
// KIS returns every numeric field as a string, sometimes with thousands
// separators, a trailing percent sign, or Korean magnitude suffixes. Parsing
// fails soft: anything that cannot be read as a finite number comes back as
// nil, which callers treat as "no data". A parsed zero is a real zero.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Float parses v as a float. Commas, percent signs and whitespace are ignored.
func Float(v any) *float64 {
	return parse(v, stripNumeric)
}

// Amount parses currency-like values. In addition to what Float strips it
// removes the 억 and 조 magnitude markers without scaling the number.
func Amount(v any) *float64 {
	return parse(v, stripAmount)
}

// Int parses v and truncates toward zero.
func Int(v any) *int64 {
	f := Float(v)
	if f == nil {
		return nil
	}
	n := int64(*f)
	return &n
}

// AmountInt is Amount truncated toward zero.
func AmountInt(v any) *int64 {
	f := Amount(v)
	if f == nil {
		return nil
	}
	n := int64(*f)
	return &n
}

// OrZero dereferences f, mapping nil to 0.
func OrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Ptr returns a pointer to a copy of f.
func Ptr(f float64) *float64 {
	return &f
}

func parse(v any, clean func(string) string) *float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		s := clean(x)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	case json.Number:
		return parse(string(x), clean)
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func stripNumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || r == '%' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func stripAmount(s string) string {
	s = strings.NewReplacer("억", "", "조", "").Replace(s)
	return stripNumeric(s)
}
