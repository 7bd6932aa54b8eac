package dataset

import (
	"strings"

	apperrors "dataviz/internal/errors"
)

// ParseCSV reads comma separated text: first non-blank line is the header,
// every further non-blank line is a row. There is no quoting or escaping, so
// a comma inside a value shifts the remaining fields. Short rows leave their
// trailing columns absent and extra fields are ignored.
func ParseCSV(data []byte) (Dataset, error) {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, apperrors.InvalidInput("CSV input has no header line")
	}

	headers := strings.Split(lines[0], ",")
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make(Dataset, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		rec := NewRecord(len(headers))
		for i, h := range headers {
			if i < len(values) {
				rec.Set(h, Text(strings.TrimSpace(values[i])))
			} else {
				rec.Set(h, Absent())
			}
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
