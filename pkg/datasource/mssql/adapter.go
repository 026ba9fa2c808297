// Package mssql provides the SQL Server datasource adapter.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver for database/sql
	"go.uber.org/zap"

	"github.com/sqlscribe/sqlscribe/pkg/config"
	"github.com/sqlscribe/sqlscribe/pkg/datasource"
)

// BuildConnectionString builds a SQL Server URL with proper escaping.
func BuildConnectionString(cfg *config.DatasourceConfig) string {
	query := url.Values{}
	query.Set("database", cfg.Database)

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Adapter provides SQL Server connectivity over a bounded database/sql pool.
type Adapter struct {
	db             *sql.DB
	acquireTimeout time.Duration
	logger         *zap.Logger
}

// NewAdapter opens a SQL Server pool with the configured bounds and
// verifies connectivity. If logger is nil, a no-op logger is used.
func NewAdapter(ctx context.Context, cfg *config.DatasourceConfig, logger *zap.Logger) (*Adapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlserver", BuildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("open sqlserver: %w", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConnections))
	db.SetMaxIdleConns(int(cfg.MinConnections))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime())
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime())

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlserver: %w", err)
	}

	return &Adapter{
		db:             db,
		acquireTimeout: cfg.AcquireTimeout(),
		logger:         logger.Named("mssql"),
	}, nil
}

// Acquire implements datasource.Datasource.
func (a *Adapter) Acquire(ctx context.Context) (datasource.Session, error) {
	if a.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.acquireTimeout)
		defer cancel()
	}

	conn, err := a.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	return &session{conn: conn, logger: a.logger}, nil
}

// Close implements datasource.Datasource.
func (a *Adapter) Close() {
	_ = a.db.Close()
}

type session struct {
	conn     *sql.Conn
	logger   *zap.Logger
	released bool
}

// schemaQuery lists user tables and columns in introspection order.
const schemaQuery = `
	SET NOCOUNT ON;
	SELECT t.name AS table_name, c.name AS column_name, tp.name AS data_type
	FROM sys.tables t
	INNER JOIN sys.columns c ON c.object_id = t.object_id
	INNER JOIN sys.types tp ON c.user_type_id = tp.user_type_id
	WHERE t.is_ms_shipped = 0
	ORDER BY t.name, c.column_id
`

// ExtractSchema implements datasource.Session.
func (s *session) ExtractSchema(ctx context.Context) (string, error) {
	rows, err := s.conn.QueryContext(ctx, schemaQuery)
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
	rows, err := s.conn.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &datasource.QueryResult{
		Columns: columnNames,
		Rows:    [][]any{},
	}

	for rows.Next() {
		values := make([]any, len(columnNames))
		ptrs := make([]any, len(columnNames))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
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
	_ = s.conn.Close()
}

var _ datasource.Datasource = (*Adapter)(nil)
