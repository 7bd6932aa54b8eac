package dataset

import (
	"bytes"
	"encoding/json"
)

// Record is one row: column name to Value, in insertion order.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord returns an empty record sized for n columns.
func NewRecord(n int) Record {
	return Record{
		keys:   make([]string, 0, n),
		values: make(map[string]Value, n),
	}
}

// RecordOf builds a record from alternating key, text pairs. Handy in tests
// and for small literal datasets.
func RecordOf(pairs ...string) Record {
	rec := NewRecord(len(pairs) / 2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Set(pairs[i], Text(pairs[i+1]))
	}
	return rec
}

// Set stores v under key. A key that already exists keeps its position.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value for key, absent when the key is unknown.
func (r Record) Get(key string) Value {
	return r.values[key]
}

// Has reports whether key is one of the record's columns.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the column names in order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Record) Len() int { return len(r.keys) }

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := NewRecord(len(r.keys))
	for _, k := range r.keys {
		out.Set(k, r.values[k])
	}
	return out
}

// Equal compares keys, order and values.
func (r Record) Equal(other Record) bool {
	if len(r.keys) != len(other.keys) {
		return false
	}
	for i, k := range r.keys {
		if other.keys[i] != k || other.values[k] != r.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
