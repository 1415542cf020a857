package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/tordrt/shopschema/internal/schema"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// ValidFormat reports whether name is a supported output format
func ValidFormat(name string) bool {
	return name == formatMarkdown || name == formatText
}

// MultiFileFormatter writes schema to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the schema to multiple files
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	if !ValidFormat(f.OutputFormat) {
		return errors.Errorf("invalid format: %s (must be 'text' or 'markdown')", f.OutputFormat)
	}

	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	if err := f.writeOverview(s); err != nil {
		return errors.Wrap(err, "failed to write overview")
	}

	for i := range s.Tables {
		if err := f.writeTableFile(&s.Tables[i], s); err != nil {
			return errors.Wrapf(err, "failed to write table file for %s", s.Tables[i].Name)
		}
	}

	return nil
}

// writeOverview writes the overview file
func (f *MultiFileFormatter) writeOverview(s *schema.Schema) error {
	ext := f.getFileExtension()
	filename := filepath.Join(f.OutputDir, "_overview"+ext)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		f.writeMarkdownOverview(file, s)
	} else {
		f.writeTextOverview(file, s)
	}
	return file.Close()
}

func (f *MultiFileFormatter) writeMarkdownOverview(w io.Writer, s *schema.Schema) {
	_, _ = fmt.Fprintf(w, "# Schema Overview\n\n")
	_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
	_, _ = fmt.Fprintf(w, "## Tables\n\n")

	for _, table := range sortedTables(s) {
		_, _ = fmt.Fprintf(w, "- **%s**", table.Name)

		if targets := relationTargets(table); len(targets) > 0 {
			_, _ = fmt.Fprintf(w, " (references: %s)", strings.Join(targets, ", "))
		}
		_, _ = fmt.Fprintf(w, "\n")
	}

	if len(s.Views) > 0 {
		_, _ = fmt.Fprintf(w, "\n## Views\n\n")
		for _, view := range s.Views {
			_, _ = fmt.Fprintf(w, "- **%s**", view.Name)
			if len(view.DependsOn) > 0 {
				_, _ = fmt.Fprintf(w, " (from: %s)", strings.Join(view.DependsOn, ", "))
			}
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

func (f *MultiFileFormatter) writeTextOverview(w io.Writer, s *schema.Schema) {
	_, _ = fmt.Fprintf(w, "SCHEMA OVERVIEW\n")
	_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", f.getFileExtension())

	for _, table := range sortedTables(s) {
		_, _ = fmt.Fprintf(w, "%s", table.Name)
		if targets := relationTargets(table); len(targets) > 0 {
			_, _ = fmt.Fprintf(w, " (references: %s)", strings.Join(targets, ","))
		}
		_, _ = fmt.Fprintf(w, "\n")
	}

	for _, view := range s.Views {
		_, _ = fmt.Fprintf(w, "VIEW %s\n", view.Name)
	}
}

// writeTableFile writes a single table to its own file
func (f *MultiFileFormatter) writeTableFile(table *schema.Table, s *schema.Schema) error {
	ext := f.getFileExtension()
	filename := filepath.Join(f.OutputDir, table.Name+ext)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		err = NewMarkdownFormatter(file).FormatTable(table, s)
	} else {
		err = NewTextFormatter(file).FormatTable(table, s)
	}
	if err != nil {
		return err
	}

	return file.Close()
}

// IncomingRelation represents a relationship pointing to this table
type IncomingRelation struct {
	SourceTable  string
	SourceColumn string
	TargetTable  string
	TargetColumn string
	Cardinality  string
	OnDelete     schema.ReferentialAction
}

// IncomingRelations finds all foreign keys pointing to tableName
func IncomingRelations(s *schema.Schema, tableName string) []IncomingRelation {
	var incoming []IncomingRelation

	for _, table := range s.Tables {
		for _, rel := range table.Relations {
			if rel.TargetTable == tableName {
				incoming = append(incoming, IncomingRelation{
					SourceTable:  table.Name,
					SourceColumn: rel.SourceColumn,
					TargetTable:  rel.TargetTable,
					TargetColumn: rel.TargetColumn,
					Cardinality:  rel.Cardinality,
					OnDelete:     rel.OnDelete,
				})
			}
		}
	}

	return incoming
}

func sortedTables(s *schema.Schema) []schema.Table {
	tables := make([]schema.Table, len(s.Tables))
	copy(tables, s.Tables)
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].Name < tables[j].Name
	})
	return tables
}

// relationTargets lists referenced tables once each, in relation order
func relationTargets(table schema.Table) []string {
	var targets []string
	seen := make(map[string]bool)
	for _, rel := range table.Relations {
		if !seen[rel.TargetTable] {
			seen[rel.TargetTable] = true
			targets = append(targets, rel.TargetTable)
		}
	}
	return targets
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}
