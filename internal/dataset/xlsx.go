package dataset

import (
	"bytes"
	"strings"

	apperrors "dataviz/internal/errors"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of a workbook. The first row holds the
// headers; cells missing from the end of a row are absent.
func ParseXLSX(data []byte) (Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrap(err, "failed to open workbook"))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.InvalidInput("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrapf(err, "failed to read sheet %s", sheets[0]))
	}
	if len(rows) == 0 {
		return nil, apperrors.InvalidInput("sheet has no header row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	out := make(Dataset, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := NewRecord(len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec.Set(h, Text(row[i]))
			} else {
				rec.Set(h, Absent())
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
