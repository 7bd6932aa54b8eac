package dataset

import (
	"bytes"
	"context"

	apperrors "dataviz/internal/errors"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ParseParquet reads a parquet file through Arrow. Every cell is stored as
// the text form of its Arrow value; nulls are absent.
func ParseParquet(ctx context.Context, data []byte) (Dataset, error) {
	mem := memory.NewGoAllocator()
	pf, err := file.NewParquetReader(bytes.NewReader(data), file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrap(err, "failed to create parquet reader"))
	}
	defer pf.Close()

	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrap(err, "failed to create arrow reader"))
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrap(err, "failed to read parquet data"))
	}
	defer table.Release()

	numCols := int(table.NumCols())
	out := make(Dataset, table.NumRows())
	for i := range out {
		out[i] = NewRecord(numCols)
	}

	// column-major walk; each record still receives its keys in schema order
	for c := 0; c < numCols; c++ {
		col := table.Column(c)
		name := col.Name()
		row := 0
		for _, chunk := range col.Data().Chunks() {
			for i := 0; i < chunk.Len(); i++ {
				if chunk.IsNull(i) {
					out[row].Set(name, Absent())
				} else {
					out[row].Set(name, Text(chunk.ValueStr(i)))
				}
				row++
			}
		}
	}
	return out, nil
}
