package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	apperrors "dataviz/internal/errors"
)

// ParseJSON reads an array of flat objects. Object key order is kept.
// Strings are stored verbatim, numbers and booleans keep their literal text,
// null becomes an absent cell and nested values are stored as compact JSON.
func ParseJSON(data []byte) (Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var rows Dataset
	for dec.More() {
		rec, err := decodeObject(dec, len(rows))
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, apperrors.InvalidInput("invalid JSON: unexpected data after top-level array")
	}
	if rows == nil {
		rows = Dataset{}
	}
	return rows, nil
}

func decodeObject(dec *json.Decoder, index int) (Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return Record{}, invalidJSON(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Record{}, apperrors.InvalidInput(fmt.Sprintf("invalid JSON: element %d is not an object", index))
	}

	rec := NewRecord(8)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Record{}, invalidJSON(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Record{}, apperrors.InvalidInput("invalid JSON: object key is not a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Record{}, invalidJSON(err)
		}
		v, err := valueFromRaw(raw)
		if err != nil {
			return Record{}, err
		}
		rec.Set(key, v)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func valueFromRaw(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return Absent(), nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, invalidJSON(err)
		}
		return Text(s), nil
	case raw[0] == '{' || raw[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return Value{}, invalidJSON(err)
		}
		return Text(buf.String()), nil
	default:
		return literal(string(raw)), nil
	}
}

// literal keeps the text of a JSON number or boolean and remembers whether
// it is falsy.
func literal(text string) Value {
	v := Text(text)
	switch text {
	case "false":
		v.falsy = true
	case "true":
	default:
		if f, err := strconv.ParseFloat(text, 64); err == nil && f == 0 {
			v.falsy = true
		}
	}
	return v
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return invalidJSON(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return apperrors.InvalidInput(fmt.Sprintf("invalid JSON: expected %q, got %v", want, tok))
	}
	return nil
}

func invalidJSON(err error) error {
	return apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrap(err, "invalid JSON"))
}
