package db

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/tordrt/shopschema/internal/ddl"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient creates a new SQLite client. Foreign key enforcement is
// switched on for every connection.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", SQLiteDSN(path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &SQLiteClient{db: db}, nil
}

// SQLiteDSN turns a file path into a go-sqlite3 DSN with foreign keys on.
// Any foreign key setting already in path is replaced.
func SQLiteDSN(path string) string {
	base, query, _ := strings.Cut(path, "?")
	if !strings.HasPrefix(base, "file:") {
		base = "file:" + base
	}

	params := []string{}
	for _, param := range strings.Split(query, "&") {
		if param == "" || strings.HasPrefix(param, "_foreign_keys=") || strings.HasPrefix(param, "_fk=") {
			continue
		}
		params = append(params, param)
	}
	params = append(params, "_foreign_keys=on")

	return base + "?" + strings.Join(params, "&")
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}

// Dialect implements Executor
func (c *SQLiteClient) Dialect() ddl.Dialect {
	return ddl.SQLite
}

// ExecStatements runs stmts in one transaction
func (c *SQLiteClient) ExecStatements(ctx context.Context, stmts []string) error {
	return execInTx(ctx, c.db, stmts)
}
