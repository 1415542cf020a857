package db

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/tordrt/shopschema/internal/ddl"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient creates a new MySQL client
func NewMySQLClient(ctx context.Context, connString string) (*MySQLClient, error) {
	dsn, err := MySQLDSN(connString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &MySQLClient{db: db}, nil
}

// MySQLDSN normalises a DSN so DATETIME columns scan into time.Time
func MySQLDSN(connString string) (string, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return "", errors.Wrap(err, "invalid MySQL DSN")
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// ParseDatabaseName extracts the database name from a MySQL DSN
func ParseDatabaseName(connString string) (string, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return "", errors.Wrap(err, "invalid MySQL DSN")
	}
	if cfg.DBName == "" {
		return "", errors.New("no database name in MySQL DSN")
	}
	return cfg.DBName, nil
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *MySQLClient) GetDB() *sql.DB {
	return c.db
}

// Dialect implements Executor
func (c *MySQLClient) Dialect() ddl.Dialect {
	return ddl.MySQL
}

// ExecStatements runs stmts one at a time. MySQL commits DDL implicitly, so a
// failure part way leaves the earlier statements applied.
func (c *MySQLClient) ExecStatements(ctx context.Context, stmts []string) error {
	return execEach(ctx, c.db, stmts)
}
