package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tordrt/shopschema"
	"github.com/tordrt/shopschema/internal/schema"
)

// errDrift makes diff exit non-zero once the differences are printed
var errDrift = errors.New("live schema differs from the declared schema")

func newImpactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "impact TABLE",
		Short: "Show what deleting one row of TABLE does to the rest of the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			effects, err := shopschema.DeleteImpact(args[0])
			if err != nil {
				return err
			}
			writeImpact(cmd.OutOrStdout(), args[0], effects)
			return nil
		},
	}
}

func writeImpact(w io.Writer, table string, effects []schema.DeleteEffect) {
	_, _ = fmt.Fprintf(w, "DELETE FROM %s\n", table)
	if len(effects) == 0 {
		_, _ = fmt.Fprintln(w, "  no dependent rows")
		return
	}

	for _, e := range effects {
		indent := strings.Repeat("  ", e.Depth)
		_, _ = fmt.Fprintf(w, "%s%s.%s → %s: %s\n", indent, e.Table, e.Column, e.Parent, e.Action)
	}

	if blockers := schema.Blockers(effects); len(blockers) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "BLOCKED WHILE REFERENCED BY:")
		for _, e := range blockers {
			_, _ = fmt.Fprintf(w, "  %s.%s\n", e.Table, e.Column)
		}
	}
}

func newDiffCmd(a *app) *cobra.Command {
	var exclude string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare a live database with the declared schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.requireDatabaseURL()
			if err != nil {
				return err
			}

			diffs, err := shopschema.Diff(cmd.Context(), url, &shopschema.Options{
				SchemaName:    a.schema(),
				ExcludeTables: parseTableList(exclude),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(diffs) == 0 {
				_, _ = fmt.Fprintln(out, "no drift")
				return nil
			}
			for _, d := range diffs {
				_, _ = fmt.Fprintln(out, d.String())
			}
			return errDrift
		},
	}

	a.addDatabaseFlags(cmd)
	cmd.Flags().StringVar(&exclude, "exclude", "", "Tables to leave out of the comparison (comma-separated)")

	return cmd
}
