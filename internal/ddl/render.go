package ddl

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/tordrt/shopschema/internal/schema"
)

// Renderer turns a schema into statements for one dialect
type Renderer struct {
	dialect Dialect
}

// NewRenderer creates a renderer for the given dialect
func NewRenderer(d Dialect) *Renderer {
	return &Renderer{dialect: d}
}

// Dialect returns the renderer's dialect
func (r *Renderer) Dialect() Dialect {
	return r.dialect
}

// Create returns the statements that build s from an empty database, parents
// before children. Statements carry no trailing semicolon.
func (r *Renderer) Create(s *schema.Schema) ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	order, err := s.DependencyOrder()
	if err != nil {
		return nil, err
	}

	var stmts []string

	if r.dialect == Postgres {
		for _, name := range order {
			table := s.Table(name)
			for _, col := range table.Columns {
				if col.Type == schema.TypeEnum {
					stmts = append(stmts, fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)",
						EnumTypeName(table.Name, col.Name), quoteList(col.EnumValues)))
				}
			}
		}
	}

	for _, name := range order {
		table := s.Table(name)
		stmt, err := r.createTable(table)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	for _, name := range order {
		table := s.Table(name)
		for _, idx := range table.Indexes {
			stmts = append(stmts, r.createIndex(table.Name, idx))
		}
	}

	for _, view := range s.Views {
		stmts = append(stmts, fmt.Sprintf("CREATE VIEW %s AS\n%s", view.Name, strings.TrimSpace(view.Definition)))
	}

	return stmts, nil
}

// Drop returns the statements that remove everything Create builds, children
// before parents.
func (r *Renderer) Drop(s *schema.Schema) ([]string, error) {
	order, err := s.DependencyOrder()
	if err != nil {
		return nil, err
	}

	var stmts []string
	for i := len(s.Views) - 1; i >= 0; i-- {
		stmts = append(stmts, fmt.Sprintf("DROP VIEW IF EXISTS %s", s.Views[i].Name))
	}

	for i := len(order) - 1; i >= 0; i-- {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s", order[i]))
	}

	if r.dialect == Postgres {
		for i := len(order) - 1; i >= 0; i-- {
			table := s.Table(order[i])
			for _, col := range table.Columns {
				if col.Type == schema.TypeEnum {
					stmts = append(stmts, fmt.Sprintf("DROP TYPE IF EXISTS %s", EnumTypeName(table.Name, col.Name)))
				}
			}
		}
	}

	return stmts, nil
}

func (r *Renderer) createTable(table *schema.Table) (string, error) {
	var lines []string

	for _, col := range table.Columns {
		line, err := r.columnDefinition(table, col)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}

	if !r.inlinePrimaryKey(table) {
		lines = append(lines, fmt.Sprintf("CONSTRAINT pk_%s PRIMARY KEY (%s)",
			table.Name, strings.Join(table.PrimaryKey, ", ")))
	}

	for _, col := range table.Columns {
		if col.IsUnique {
			lines = append(lines, fmt.Sprintf("CONSTRAINT uq_%s_%s UNIQUE (%s)", table.Name, col.Name, col.Name))
		}
	}

	for _, rel := range table.Relations {
		name := rel.Name
		if name == "" {
			name = fmt.Sprintf("fk_%s_%s", table.Name, rel.SourceColumn)
		}
		lines = append(lines, fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE %s",
			name, rel.SourceColumn, rel.TargetTable, rel.TargetColumn, rel.OnDelete))
	}

	for _, check := range table.Checks {
		lines = append(lines, fmt.Sprintf("CONSTRAINT chk_%s_%s CHECK (%s)", table.Name, check.Name, check.Expr))
	}

	if r.dialect == SQLite {
		for _, col := range table.Columns {
			if col.Type == schema.TypeEnum {
				lines = append(lines, fmt.Sprintf("CONSTRAINT chk_%s_%s CHECK (%s IN (%s))",
					table.Name, col.Name, col.Name, quoteList(col.EnumValues)))
			}
		}
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", table.Name, strings.Join(lines, ",\n    "))
	if r.dialect == MySQL {
		stmt += " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	}
	return stmt, nil
}

func (r *Renderer) columnDefinition(table *schema.Table, col schema.Column) (string, error) {
	typ, err := r.dialect.columnType(table.Name, col)
	if err != nil {
		return "", err
	}

	parts := []string{col.Name, typ}
	if col.Type != schema.TypeSerial || r.dialect != SQLite {
		if !col.Nullable {
			parts = append(parts, "NOT NULL")
		}
	}
	if col.Type == schema.TypeSerial && r.dialect == MySQL {
		parts = append(parts, "AUTO_INCREMENT")
	}
	if col.DefaultValue != nil {
		parts = append(parts, "DEFAULT "+*col.DefaultValue)
	}
	return strings.Join(parts, " "), nil
}

// SQLite only auto-increments a key declared inline on its column
func (r *Renderer) inlinePrimaryKey(table *schema.Table) bool {
	if r.dialect != SQLite || len(table.PrimaryKey) != 1 {
		return false
	}
	col := table.Column(table.PrimaryKey[0])
	return col != nil && col.Type == schema.TypeSerial
}

func (r *Renderer) createIndex(table string, idx schema.Index) string {
	unique := ""
	if idx.IsUnique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)", unique, idx.Name, table, strings.Join(idx.Columns, ", "))
}

// Write prints statements as a script, one terminated statement per block
func Write(w io.Writer, stmts []string) error {
	for i, stmt := range stmts {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return errors.Wrap(err, "failed to write statement")
			}
		}
		if _, err := fmt.Fprintf(w, "%s;\n", stmt); err != nil {
			return errors.Wrap(err, "failed to write statement")
		}
	}
	return nil
}
