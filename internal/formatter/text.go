package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/shopschema/internal/schema"
)

// TextFormatter formats schema as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	for i := range s.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}

		if err := f.FormatTable(&s.Tables[i], s); err != nil {
			return err
		}
	}

	for _, view := range s.Views {
		_, _ = fmt.Fprintln(f.writer)
		f.formatView(view)
	}
	return nil
}

// FormatTable writes one table. s supplies incoming references and may be nil.
func (f *TextFormatter) FormatTable(table *schema.Table, s *schema.Schema) error {
	pkStr := ""
	if len(table.PrimaryKey) > 0 {
		pkStr = fmt.Sprintf(" (PK: %s)", strings.Join(table.PrimaryKey, ", "))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", table.Name, pkStr)
	if table.Comment != "" {
		_, _ = fmt.Fprintf(f.writer, "  -- %s\n", table.Comment)
	}

	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", f.formatColumn(col))
	}

	if len(table.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  RELATIONS:")
		for _, rel := range table.Relations {
			_, _ = fmt.Fprintf(f.writer, "    %s → %s.%s (%s)\n",
				rel.SourceColumn, rel.TargetTable, rel.TargetColumn, relationDetail(rel))
		}
	}

	if s != nil {
		if incoming := IncomingRelations(s, table.Name); len(incoming) > 0 {
			_, _ = fmt.Fprintln(f.writer)
			_, _ = fmt.Fprintln(f.writer, "  REFERENCED BY:")
			for _, rel := range incoming {
				_, _ = fmt.Fprintf(f.writer, "    %s.%s (%s)\n", rel.SourceTable, rel.SourceColumn, deleteClause(rel.OnDelete))
			}
		}
	}

	if len(table.Checks) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  CHECKS:")
		for _, check := range table.Checks {
			_, _ = fmt.Fprintf(f.writer, "    %s: %s\n", check.Name, check.Expr)
		}
	}

	if len(table.Indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  INDEXES:")
		for _, idx := range table.Indexes {
			unique := ""
			if idx.IsUnique {
				unique = " UNIQUE"
			}
			_, _ = fmt.Fprintf(f.writer, "    %s (%s)%s\n", idx.Name, strings.Join(idx.Columns, ", "), unique)
		}
	}

	return nil
}

func (f *TextFormatter) formatView(view schema.View) {
	deps := ""
	if len(view.DependsOn) > 0 {
		deps = fmt.Sprintf(" (FROM: %s)", strings.Join(view.DependsOn, ", "))
	}
	_, _ = fmt.Fprintf(f.writer, "VIEW %s%s\n", view.Name, deps)
	if view.Comment != "" {
		_, _ = fmt.Fprintf(f.writer, "  -- %s\n", view.Comment)
	}
}

func (f *TextFormatter) formatColumn(col schema.Column) string {
	parts := []string{col.Name + ":"}

	// Type with enum values if present
	typeStr := col.Type
	if len(col.EnumValues) > 0 {
		typeStr = fmt.Sprintf("%s (%s)", col.Type, strings.Join(col.EnumValues, "|"))
	}
	parts = append(parts, typeStr)

	if col.IsUnique {
		parts = append(parts, "UNIQUE")
	}

	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}

	if col.DefaultValue != nil {
		parts = append(parts, fmt.Sprintf("DEFAULT %s", *col.DefaultValue))
	}

	return strings.Join(parts, " ")
}

// relationDetail renders "N:1, ON DELETE CASCADE", leaving out an unknown cardinality
func relationDetail(rel schema.Relation) string {
	var parts []string
	if rel.Cardinality != "" {
		parts = append(parts, rel.Cardinality)
	}
	parts = append(parts, deleteClause(rel.OnDelete))
	return strings.Join(parts, ", ")
}

func deleteClause(action schema.ReferentialAction) string {
	if action == "" {
		return "ON DELETE " + string(schema.NoAction)
	}
	return "ON DELETE " + string(action)
}
