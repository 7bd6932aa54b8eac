package service

import (
	"context"
	"os"
	"testing"
	"time"

	"dataviz/internal/dataset"
	apperrors "dataviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := DataSourceConfig{Host: "db", User: "viz", Password: "pw", DBName: "sales"}
	assert.Equal(t, "host=db port=5432 user=viz password=pw dbname=sales sslmode=disable", cfg.DSN())

	cfg.URL = "postgres://viz@db/sales"
	assert.Equal(t, "postgres://viz@db/sales", cfg.DSN())
}

func TestCellValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, dataset.Absent(), cellValue(nil))
	assert.Equal(t, dataset.Text("abc"), cellValue([]byte("abc")))
	assert.Equal(t, dataset.Text("abc"), cellValue("abc"))
	assert.Equal(t, dataset.Text("42"), cellValue(int64(42)))
	assert.Equal(t, dataset.Text("1.5"), cellValue(1.5))
	assert.Equal(t, dataset.Text("true"), cellValue(true))
	assert.Equal(t, dataset.Text("2024-03-01T12:00:00Z"), cellValue(ts))
}

func TestListTablesWithoutConnection(t *testing.T) {
	_, err := NewPostgresDataSource().ListTables(context.Background())
	assert.Equal(t, apperrors.CodeNotLoaded, apperrors.GetCode(err))
	assert.NoError(t, NewPostgresDataSource().Close())
}

// TestPostgresLoadTable runs against a live database when DATABASE_URL is set
func TestPostgresLoadTable(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("Skipping live test: DATABASE_URL not set")
	}

	ctx := context.Background()
	ds := NewPostgresDataSource()
	require.NoError(t, ds.Connect(ctx, DataSourceConfig{URL: url}))
	defer ds.Close()

	_, err := ds.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS dataviz_sales (city text, sales numeric)`)
	require.NoError(t, err)
	defer ds.db.ExecContext(ctx, `DROP TABLE IF EXISTS dataviz_sales`)
	_, err = ds.db.ExecContext(ctx, `INSERT INTO dataviz_sales VALUES ('NY', 10), ('LA', NULL)`)
	require.NoError(t, err)

	rows, err := ds.LoadTable(ctx, "dataviz_sales", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"city", "sales"}, rows.Columns())
	assert.Equal(t, "10", rows[0].Get("sales").Text())
	assert.False(t, rows[1].Get("sales").Present())

	_, err = ds.LoadTable(ctx, "missing; DROP TABLE x", 10)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}
