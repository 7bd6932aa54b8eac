package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Value is a raw cell. Every loader stores text; numbers are coerced lazily.
type Value struct {
	text    string
	present bool
	// falsy marks JSON literals the browser treats as false: 0 and false.
	falsy bool
}

// Text returns a present value holding s.
func Text(s string) Value {
	return Value{text: s, present: true}
}

// Absent returns the value of a missing cell.
func Absent() Value {
	return Value{}
}

// Present reports whether the cell exists in its record.
func (v Value) Present() bool { return v.present }

// Text returns the raw text, "" for absent cells.
func (v Value) Text() string { return v.text }

// Truthy is false for absent cells, empty strings and the JSON literals
// 0 and false. The text "0" read from CSV is truthy.
func (v Value) Truthy() bool {
	return v.present && v.text != "" && !v.falsy
}

// Float parses the longest leading number of the text, the same way a
// browser's parseFloat does: "12px" is 12, " 3.5e2x" is 350, "abc" fails.
// The returned float is NaN when ok is false.
func (v Value) Float() (f float64, ok bool) {
	if !v.present {
		return math.NaN(), false
	}
	return parseFloatPrefix(v.text)
}

// IsNumeric reports whether Float succeeds.
func (v Value) IsNumeric() bool {
	_, ok := v.Float()
	return ok
}

func (v Value) String() string { return v.text }

// MarshalJSON writes absent cells as null and everything else as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("null"), nil
	}
	return json.Marshal(v.text)
}

func parseFloatPrefix(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	if strings.HasPrefix(s[end:], "Infinity") {
		f, _ := strconv.ParseFloat(s[:end]+"Inf", 64)
		return f, true
	}

	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN(), false
	}

	// exponent counts only when digits follow it
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		j := end + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return f, true
		}
		return math.NaN(), false
	}
	return f, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
