package dataset

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	apperrors "dataviz/internal/errors"
)

// Format identifies an input encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// DetectFormat picks a format from the file name. Anything that is not a
// known tabular extension is read as JSON.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	case ".parquet":
		return FormatParquet
	default:
		return FormatJSON
	}
}

// Parse decodes data in the given format.
func Parse(ctx context.Context, format Format, data []byte) (Dataset, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(data)
	case FormatJSON:
		return ParseJSON(data)
	case FormatXLSX:
		return ParseXLSX(data)
	case FormatParquet:
		return ParseParquet(ctx, data)
	default:
		return nil, apperrors.UnsupportedFormat(string(format))
	}
}

// Load reads everything from r and parses it according to name's extension.
func Load(ctx context.Context, name string, r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read %s", name)
	}
	rows, err := Parse(ctx, DetectFormat(name), data)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to parse %s", filepath.Base(name))
	}
	return rows, nil
}
