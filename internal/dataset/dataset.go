// Package dataset holds the row model, the file loaders and the substring filter.
package dataset

// Dataset is an ordered sequence of records.
type Dataset []Record

// Columns returns the first record's keys. Column selection and type
// classification are both driven by the first record.
func (d Dataset) Columns() []string {
	if len(d) == 0 {
		return nil
	}
	return d[0].Keys()
}

// HasColumn reports whether name is a key of the first record.
func (d Dataset) HasColumn(name string) bool {
	if len(d) == 0 || name == "" {
		return false
	}
	return d[0].Has(name)
}

// Clone deep-copies every record so the copy shares nothing with d.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	for i, rec := range d {
		out[i] = rec.Clone()
	}
	return out
}

// Equal compares two datasets by content.
func (d Dataset) Equal(other Dataset) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if !d[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Head returns at most n leading records, or all of them when n <= 0.
func (d Dataset) Head(n int) Dataset {
	if n <= 0 || n > len(d) {
		n = len(d)
	}
	return d[:n]
}

// IsNumericColumn classifies a column from the first record alone.
func (d Dataset) IsNumericColumn(name string) bool {
	if len(d) == 0 {
		return false
	}
	return d[0].Get(name).IsNumeric()
}
