package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"dataviz/internal/dataset"
	apperrors "dataviz/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// DefaultTableLimit caps rows read from a table when the caller gives none.
const DefaultTableLimit = 1000

// DataSourceConfig holds connection details. URL wins over the discrete fields.
type DataSourceConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require"
}

// DSN returns the connection string handed to the driver.
func (c DataSourceConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, port, c.User, c.Password, c.DBName, sslMode)
}

// DataSource loads datasets from a database
type DataSource interface {
	Connect(ctx context.Context, config DataSourceConfig) error
	Close() error
	ListTables(ctx context.Context) ([]string, error)
	LoadTable(ctx context.Context, tableName string, limit int) (dataset.Dataset, error)
}

// PostgresDataSource implements DataSource for PostgreSQL
type PostgresDataSource struct {
	db *sqlx.DB
}

func NewPostgresDataSource() *PostgresDataSource {
	return &PostgresDataSource{}
}

func (p *PostgresDataSource) Connect(ctx context.Context, config DataSourceConfig) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", config.DSN())
	if err != nil {
		return apperrors.DatabaseError("failed to connect to database", err)
	}
	p.db = db
	return nil
}

func (p *PostgresDataSource) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDataSource) ListTables(ctx context.Context) ([]string, error) {
	if p.db == nil {
		return nil, apperrors.New(apperrors.CodeNotLoaded, "no database connection")
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name;
	`
	var tables []string
	if err := p.db.SelectContext(ctx, &tables, query); err != nil {
		return nil, apperrors.DatabaseError("failed to list tables", err)
	}
	return tables, nil
}

// LoadTable reads up to limit rows of a public table. The table name must be
// one ListTables returns and is quoted as an identifier.
func (p *PostgresDataSource) LoadTable(ctx context.Context, tableName string, limit int) (dataset.Dataset, error) {
	tables, err := p.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	if !contains(tables, tableName) {
		return nil, apperrors.NotFound(fmt.Sprintf("table %q", tableName))
	}
	if limit <= 0 {
		limit = DefaultTableLimit
	}

	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", pq.QuoteIdentifier(tableName), limit)
	rows, err := p.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to query table", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, apperrors.DatabaseError("failed to read columns", err)
	}

	out := dataset.Dataset{}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, apperrors.DatabaseError("failed to scan row", err)
		}
		rec := dataset.NewRecord(len(columns))
		for i, col := range columns {
			rec.Set(col, cellValue(values[i]))
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("failed to read rows", err)
	}
	return out, nil
}

// cellValue renders a driver value as text; NULL is an absent cell.
func cellValue(v interface{}) dataset.Value {
	switch t := v.(type) {
	case nil:
		return dataset.Absent()
	case []byte:
		return dataset.Text(string(t))
	case string:
		return dataset.Text(t)
	case float64:
		return dataset.Text(strconv.FormatFloat(t, 'g', -1, 64))
	case float32:
		return dataset.Text(strconv.FormatFloat(float64(t), 'g', -1, 32))
	case time.Time:
		return dataset.Text(t.Format(time.RFC3339))
	default:
		return dataset.Text(fmt.Sprint(t))
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
