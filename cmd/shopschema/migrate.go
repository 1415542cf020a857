package main

import (
	"github.com/spf13/cobra"

	"github.com/tordrt/shopschema"
)

func newMigrateCmd(a *app) *cobra.Command {
	var reset, loadSample bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the declared schema in a live database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.requireDatabaseURL()
			if err != nil {
				return err
			}

			return shopschema.Migrate(cmd.Context(), url, &shopschema.MigrateOptions{
				Reset:    reset,
				Sample:   loadSample,
				Logger:   a.logger,
				Database: a.database(),
			})
		},
	}

	a.addDatabaseFlags(cmd)
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop every declared object first")
	cmd.Flags().BoolVar(&loadSample, "sample", false, "Load the sample dataset after migrating")

	return cmd
}
