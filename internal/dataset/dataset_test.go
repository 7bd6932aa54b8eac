package dataset

import (
	"context"
	"strings"
	"testing"

	apperrors "dataviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCloneIsDeep(t *testing.T) {
	original := Dataset{RecordOf("a", "1", "b", "2")}
	clone := original.Clone()

	clone[0].Set("a", Text("changed"))
	clone[0].Set("c", Text("new"))

	assert.Equal(t, "1", original[0].Get("a").Text())
	assert.False(t, original[0].Has("c"))
	assert.False(t, original.Equal(clone))
}

func TestColumnsAndClassification(t *testing.T) {
	rows := Dataset{
		RecordOf("city", "NY", "sales", "10"),
		RecordOf("city", "5", "sales", "n/a"),
	}

	assert.Equal(t, []string{"city", "sales"}, rows.Columns())
	assert.True(t, rows.HasColumn("sales"))
	assert.False(t, rows.HasColumn("missing"))
	assert.False(t, rows.HasColumn(""))

	// first record decides
	assert.False(t, rows.IsNumericColumn("city"))
	assert.True(t, rows.IsNumericColumn("sales"))
}

func TestHead(t *testing.T) {
	rows := Dataset{RecordOf("a", "1"), RecordOf("a", "2"), RecordOf("a", "3")}

	assert.Len(t, rows.Head(2), 2)
	assert.Len(t, rows.Head(0), 3)
	assert.Len(t, rows.Head(10), 3)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatCSV, DetectFormat("data.CSV"))
	assert.Equal(t, FormatXLSX, DetectFormat("book.xlsx"))
	assert.Equal(t, FormatParquet, DetectFormat("/tmp/t.parquet"))
	assert.Equal(t, FormatJSON, DetectFormat("data.json"))
	assert.Equal(t, FormatJSON, DetectFormat("notes.txt"))
}

func TestLoadJSONFailureIsSurfaced(t *testing.T) {
	_, err := Load(context.Background(), "broken.json", strings.NewReader("[{"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse(context.Background(), Format("yaml"), nil)
	assert.Equal(t, apperrors.CodeUnsupportedFormat, apperrors.GetCode(err))
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"city", "sales"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"NY", 10}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"LA"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Load(context.Background(), "book.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"city", "sales"}, rows.Columns())
	assert.Equal(t, "10", rows[0].Get("sales").Text())
	assert.False(t, rows[1].Get("sales").Present())
}

func TestParseParquetRejectsGarbage(t *testing.T) {
	_, err := ParseParquet(context.Background(), []byte("not parquet"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}
