package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/shopschema/internal/schema"
)

// MarkdownFormatter formats schema as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the schema in markdown format
func (f *MarkdownFormatter) Format(s *schema.Schema) error {
	_, _ = fmt.Fprintln(f.writer, "# Database Schema")
	_, _ = fmt.Fprintln(f.writer)

	for i := range s.Tables {
		if err := f.FormatTable(&s.Tables[i], s); err != nil {
			return err
		}
	}

	if len(s.Views) > 0 {
		_, _ = fmt.Fprintln(f.writer, "## Views")
		_, _ = fmt.Fprintln(f.writer)
		for _, view := range s.Views {
			f.formatView(view)
		}
		_, _ = fmt.Fprintln(f.writer)
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter).
// s supplies incoming references and may be nil.
func (f *MarkdownFormatter) FormatTable(table *schema.Table, s *schema.Schema) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)
	if table.Comment != "" {
		_, _ = fmt.Fprintf(f.writer, "%s\n\n", table.Comment)
	}

	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)

	for _, col := range table.Columns {
		typeStr := col.Type
		if len(col.EnumValues) > 0 {
			typeStr = fmt.Sprintf("%s (%s)", col.Type, strings.Join(col.EnumValues, "|"))
		}

		constraintStr := f.formatConstraints(table, col)
		if constraintStr != "" {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", col.Name, typeStr, constraintStr)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col.Name, typeStr)
		}
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(table.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### References")
		_, _ = fmt.Fprintln(f.writer)
		for _, rel := range table.Relations {
			_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s (%s)\n",
				rel.SourceColumn,
				rel.TargetTable,
				rel.TargetColumn,
				relationDetail(rel))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if s != nil {
		if incoming := IncomingRelations(s, table.Name); len(incoming) > 0 {
			_, _ = fmt.Fprintln(f.writer, "### Referenced by")
			_, _ = fmt.Fprintln(f.writer)
			for _, rel := range incoming {
				_, _ = fmt.Fprintf(f.writer, "- %s.%s → %s (%s, %s)\n",
					rel.SourceTable, rel.SourceColumn,
					rel.TargetColumn,
					FormatCardinality(rel.Cardinality, rel.SourceTable, rel.TargetTable),
					deleteClause(rel.OnDelete))
			}
			_, _ = fmt.Fprintln(f.writer)
		}
	}

	if len(table.Checks) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Checks")
		_, _ = fmt.Fprintln(f.writer)
		for _, check := range table.Checks {
			_, _ = fmt.Fprintf(f.writer, "- %s: `%s`\n", check.Name, check.Expr)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(table.Indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Indexes")
		_, _ = fmt.Fprintln(f.writer)
		for _, idx := range table.Indexes {
			if idx.IsUnique {
				_, _ = fmt.Fprintf(f.writer, "- %s on (%s), unique\n",
					idx.Name,
					strings.Join(idx.Columns, ", "))
			} else {
				_, _ = fmt.Fprintf(f.writer, "- %s on (%s)\n",
					idx.Name,
					strings.Join(idx.Columns, ", "))
			}
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	return nil
}

func (f *MarkdownFormatter) formatView(view schema.View) {
	_, _ = fmt.Fprintf(f.writer, "- **%s**", view.Name)
	if len(view.DependsOn) > 0 {
		_, _ = fmt.Fprintf(f.writer, " (from: %s)", strings.Join(view.DependsOn, ", "))
	}
	if view.Comment != "" {
		_, _ = fmt.Fprintf(f.writer, ": %s", view.Comment)
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatConstraints(table *schema.Table, col schema.Column) string {
	var constraints []string

	if table.IsPrimaryKey(col.Name) {
		constraints = append(constraints, "PK")
	}

	if rel := table.Relation(col.Name); rel != nil {
		constraints = append(constraints, fmt.Sprintf("FK → %s", rel.TargetTable))
	}

	if col.IsUnique {
		constraints = append(constraints, "UNIQUE")
	}

	if !col.Nullable {
		constraints = append(constraints, "NOT NULL")
	}

	if col.DefaultValue != nil {
		constraints = append(constraints, fmt.Sprintf("DEFAULT %s", *col.DefaultValue))
	}

	return strings.Join(constraints, ", ")
}

// FormatCardinality describes a relation from the referenced table's side
func FormatCardinality(cardinality, sourceTable, targetTable string) string {
	switch cardinality {
	case schema.OneToOne:
		return fmt.Sprintf("one %s has at most one %s", targetTable, sourceTable)
	case schema.ManyToOne:
		return fmt.Sprintf("one %s has many %s", targetTable, sourceTable)
	default:
		return cardinality
	}
}
