package dataset

import (
	"strings"

	apperrors "dataviz/internal/errors"

	"golang.org/x/text/cases"
)

var (
	// ErrNoMatches is returned when a filter keeps no rows.
	ErrNoMatches = apperrors.New(apperrors.CodeNoMatches, "No matching data found for this filter.")
	// ErrNoSelection is returned when the filter column or value is missing.
	ErrNoSelection = apperrors.InvalidInput("filter column and value are required")
)

// Filter returns copies of the baseline records whose column value contains
// needle, ignoring case. Absent cells compare as empty text. The baseline is
// never modified.
func Filter(baseline Dataset, column, needle string) (Dataset, error) {
	needle = strings.TrimSpace(needle)
	if column == "" || needle == "" {
		return nil, ErrNoSelection
	}

	fold := cases.Fold()
	want := fold.String(needle)

	var out Dataset
	for _, rec := range baseline {
		if strings.Contains(fold.String(rec.Get(column).Text()), want) {
			out = append(out, rec.Clone())
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMatches
	}
	return out, nil
}
