// Package datasource defines the contract the pipeline requires from a
// target database: schema introspection and raw statement execution over a
// scoped, deterministically released connection.
package datasource

import "context"

// Datasource yields per-request sessions from a bounded pool.
type Datasource interface {
	// Acquire checks out a connection. Pool exhaustion surfaces as a
	// timeout error rather than blocking indefinitely.
	Acquire(ctx context.Context) (Session, error)

	// Close releases the underlying pool.
	Close()
}

// Session is a scoped database connection, acquired once per request and
// released on every exit path.
type Session interface {
	// ExtractSchema introspects the database and returns a deterministic
	// textual description: every table with its columns and types, in the
	// connection's natural introspection order. Fails loudly; a schema
	// failure is fatal for generation.
	ExtractSchema(ctx context.Context) (string, error)

	// Execute runs a single statement. Statements that return a result set
	// yield all rows plus column names; DML/DDL yields empty rows and
	// empty columns. Execution errors propagate unretried.
	Execute(ctx context.Context, sqlQuery string) (*QueryResult, error)

	// Release returns the connection to the pool. Safe to call once.
	Release()
}

// QueryResult holds raw rows and column names from one statement.
type QueryResult struct {
	Columns []string
	Rows    [][]any
}
