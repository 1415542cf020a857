package main

import (
	"github.com/spf13/cobra"

	"github.com/tordrt/shopschema"
)

func newDDLCmd(a *app) *cobra.Command {
	var (
		dialect    string
		outputFile string
		drop       bool
	)

	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print the CREATE script of the declared schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("dialect") && a.cfg != nil {
				dialect = a.cfg.DDL.Dialect
			}

			w, closeOut, err := openOutput(cmd, outputFile)
			if err != nil {
				return err
			}
			defer closeOut()

			return shopschema.RenderDDL(w, dialect, &shopschema.DDLOptions{Drop: drop})
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "postgres", "SQL dialect: postgres, mysql or sqlite")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&drop, "drop", false, "Prepend DROP statements for every declared object")

	return cmd
}
