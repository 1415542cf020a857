package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tordrt/shopschema"
	"github.com/tordrt/shopschema/internal/schema"
)

type docsOptions struct {
	outputFile     string
	outputDir      string
	tables         string
	exclude        string
	format         string
	splitThreshold int
}

func newDocsCmd(a *app) *cobra.Command {
	o := &docsOptions{}

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Document the declared schema, or a live one when a database is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg != nil {
				if !cmd.Flags().Changed("format") {
					o.format = a.cfg.Docs.Format
				}
				if !cmd.Flags().Changed("split-threshold") {
					o.splitThreshold = a.cfg.Docs.SplitThreshold
				}
			}

			if o.outputDir != "" && o.outputFile != "" {
				return errors.New("cannot use both --output-dir and --output flags")
			}

			url, err := a.databaseURL()
			if err != nil {
				return err
			}

			exclude := parseTableList(o.exclude)
			if exclude == nil && a.cfg != nil {
				exclude = a.cfg.Docs.Exclude
			}

			var s *schema.Schema
			if url == "" {
				s = shopschema.Declared()
				s.Tables = selectTables(s.Tables, parseTableList(o.tables))
				shopschema.FilterExcludedTables(s, exclude)
			} else {
				s, err = shopschema.ExtractSchema(cmd.Context(), url, &shopschema.Options{
					Tables:        parseTableList(o.tables),
					ExcludeTables: exclude,
					SchemaName:    a.schema(),
				})
				if err != nil {
					return errors.Wrap(err, "failed to extract schema")
				}
			}

			if shouldSplit(o.outputDir, o.splitThreshold, len(s.Tables)) {
				return shopschema.FormatSchema(s, &shopschema.OutputOptions{OutputDir: o.outputDir, Format: o.format})
			}

			w, closeOut, err := openOutput(cmd, o.outputFile)
			if err != nil {
				return err
			}
			defer closeOut()

			return shopschema.FormatSchema(s, &shopschema.OutputOptions{Writer: w, Format: o.format})
		},
	}

	a.addDatabaseFlags(cmd)
	cmd.Flags().StringVarP(&o.outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&o.outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	cmd.Flags().StringVarP(&o.tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	cmd.Flags().StringVar(&o.exclude, "exclude", "", "Tables to leave out (comma-separated)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "text", "Output format: text or markdown")
	cmd.Flags().IntVar(&o.splitThreshold, "split-threshold", 0, "Split into multiple files when table count exceeds this (requires --output-dir)")

	return cmd
}

// shouldSplit reports whether output goes to one file per table
func shouldSplit(outputDir string, threshold, tableCount int) bool {
	return outputDir != "" && (threshold == 0 || tableCount > threshold)
}

// selectTables keeps the named tables in declaration order, or all when names is empty
func selectTables(tables []schema.Table, names []string) []schema.Table {
	if len(names) == 0 {
		return tables
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	selected := make([]schema.Table, 0, len(names))
	for _, table := range tables {
		if wanted[table.Name] {
			selected = append(selected, table)
		}
	}
	return selected
}
