// Package postgres provides the PostgreSQL datasource adapter.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sqlscribe/sqlscribe/pkg/datasource"
)

// Adapter provides PostgreSQL connectivity over a bounded pgx pool.
type Adapter struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
	logger         *zap.Logger
}

// NewAdapter wraps an existing pool. acquireTimeout bounds connection
// checkout; zero disables the explicit bound. If logger is nil, a no-op
// logger is used.
func NewAdapter(pool *pgxpool.Pool, acquireTimeout time.Duration, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		pool:           pool,
		acquireTimeout: acquireTimeout,
		logger:         logger.Named("postgres"),
	}
}

// Acquire implements datasource.Datasource.
func (a *Adapter) Acquire(ctx context.Context) (datasource.Session, error) {
	if a.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.acquireTimeout)
		defer cancel()
	}

	conn, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	return &session{conn: conn, logger: a.logger}, nil
}

// Close implements datasource.Datasource.
func (a *Adapter) Close() {
	a.pool.Close()
}

// session wraps one checked-out connection.
type session struct {
	conn     *pgxpool.Conn
	logger   *zap.Logger
	released bool
}

// schemaQuery lists every user table with its columns in introspection
// order (table name, then ordinal position).
const schemaQuery = `
	SELECT t.table_name, c.column_name, c.data_type
	FROM information_schema.tables t
	JOIN information_schema.columns c
	  ON c.table_schema = t.table_schema AND c.table_name = t.table_name
	WHERE t.table_type = 'BASE TABLE'
	  AND t.table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
	ORDER BY t.table_name, c.ordinal_position
`

// ExtractSchema implements datasource.Session.
func (s *session) ExtractSchema(ctx context.Context) (string, error) {
	rows, err := s.conn.Query(ctx, schemaQuery)
	if err != nil {
		return "", fmt.Errorf("query schema: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	currentTable := ""

	for rows.Next() {
		var table, column, dataType string
		if err := rows.Scan(&table, &column, &dataType); err != nil {
			return "", fmt.Errorf("scan schema row: %w", err)
		}

		if table != currentTable {
			b.WriteString(fmt.Sprintf("Table %s:\n", table))
			currentTable = table
		}
		b.WriteString(fmt.Sprintf("  - %s (%s)\n", column, dataType))
	}

	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate schema rows: %w", err)
	}

	return b.String(), nil
}

// Execute implements datasource.Session.
func (s *session) Execute(ctx context.Context, sqlQuery string) (*datasource.QueryResult, error) {
	rows, err := s.conn.Query(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	result := &datasource.QueryResult{
		Columns: columns,
		Rows:    [][]any{},
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

// Release implements datasource.Session.
func (s *session) Release() {
	if s.released {
		return
	}
	s.released = true
	s.conn.Release()
}

var _ datasource.Datasource = (*Adapter)(nil)
