package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/tordrt/shopschema/internal/ddl"
	"github.com/tordrt/shopschema/internal/schema"
)

// Executor runs a batch of schema statements against one database
type Executor interface {
	Dialect() ddl.Dialect
	ExecStatements(ctx context.Context, stmts []string) error
}

// StatementError reports which statement of a batch failed
type StatementError struct {
	Index     int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d failed: %v\n%s", e.Index+1, e.Err, e.Statement)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

func execInTx(ctx context.Context, db *sql.DB, stmts []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return &StatementError{Index: i, Statement: stmt, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// execEach runs stmts one by one outside a transaction, stopping at the
// first failure. Statements before it stay applied.
func execEach(ctx context.Context, db *sql.DB, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return &StatementError{Index: i, Statement: stmt, Err: err}
		}
	}
	return nil
}

// MigrateOptions controls a migration run
type MigrateOptions struct {
	// Reset drops every declared object before creating it again
	Reset bool
}

// Migrator creates a declared schema in a live database
type Migrator struct {
	exec     Executor
	renderer *ddl.Renderer
	logger   *slog.Logger
}

// NewMigrator creates a migrator bound to one executor
func NewMigrator(exec Executor, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{
		exec:     exec,
		renderer: ddl.NewRenderer(exec.Dialect()),
		logger:   logger,
	}
}

// Migrate renders s for the executor's dialect and applies it
func (m *Migrator) Migrate(ctx context.Context, s *schema.Schema, opts MigrateOptions) error {
	create, err := m.renderer.Create(s)
	if err != nil {
		return errors.Wrap(err, "failed to render schema")
	}

	stmts := create
	if opts.Reset {
		drop, err := m.renderer.Drop(s)
		if err != nil {
			return errors.Wrap(err, "failed to render drop statements")
		}
		stmts = append(drop, create...)
	}

	start := time.Now()
	m.logger.InfoContext(ctx, "Applying schema",
		slog.String("dialect", string(m.exec.Dialect())),
		slog.Int("tables", len(s.Tables)),
		slog.Int("views", len(s.Views)),
		slog.Int("statements", len(stmts)),
		slog.Bool("reset", opts.Reset),
	)

	if err := m.exec.ExecStatements(ctx, stmts); err != nil {
		m.logger.ErrorContext(ctx, "Schema migration failed", slog.String("error", err.Error()))
		return errors.Wrap(err, "failed to apply schema")
	}

	m.logger.InfoContext(ctx, "Schema applied", slog.Duration("elapsed", time.Since(start)))
	return nil
}
