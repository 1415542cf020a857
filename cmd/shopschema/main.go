package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tordrt/shopschema/internal/config"
	"github.com/tordrt/shopschema/internal/logs"
)

// app carries state shared by every subcommand
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	// database flags
	dbURL      string
	mysqlURL   string
	sqlitePath string
	schemaName string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "shopschema",
		Short: "E-commerce relational schema: DDL, migration, docs and constraint analysis",
		Long: `shopschema owns the relational schema of a generic e-commerce store. It renders DDL for
PostgreSQL, MySQL or SQLite, applies it to a live database, documents the declared or live schema,
and analyses the foreign key graph.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.AddCommand(
		newDDLCmd(a),
		newMigrateCmd(a),
		newDocsCmd(a),
		newImpactCmd(a),
		newDiffCmd(a),
		newSummaryCmd(a),
	)

	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger, err := logs.New(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// addDatabaseFlags registers the flags selecting a live database
func (a *app) addDatabaseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.dbURL, "db-url", "", "PostgreSQL connection string")
	cmd.Flags().StringVar(&a.mysqlURL, "mysql-url", "", "MySQL connection string")
	cmd.Flags().StringVar(&a.sqlitePath, "sqlite", "", "SQLite database file path")
	cmd.Flags().StringVarP(&a.schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
}

// databaseURL resolves the database flags, falling back to database.url from
// config. An empty result means no database was selected.
func (a *app) databaseURL() (string, error) {
	fallback := ""
	if a.cfg != nil {
		fallback = a.cfg.Database.URL
	}
	return resolveDatabaseURL(a.dbURL, a.mysqlURL, a.sqlitePath, fallback)
}

func (a *app) requireDatabaseURL() (string, error) {
	url, err := a.databaseURL()
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", errors.New("one of --db-url, --mysql-url, or --sqlite must be specified (or set database.url)")
	}
	return url, nil
}

func (a *app) schema() string {
	if a.schemaName != "" {
		return a.schemaName
	}
	if a.cfg != nil {
		return a.cfg.Database.Schema
	}
	return ""
}

func (a *app) database() config.Database {
	if a.cfg == nil {
		return config.Default().Database
	}
	return a.cfg.Database
}

func resolveDatabaseURL(dbURL, mysqlURL, sqlitePath, fallback string) (string, error) {
	dbCount := 0
	for _, v := range []string{dbURL, mysqlURL, sqlitePath} {
		if v != "" {
			dbCount++
		}
	}
	if dbCount > 1 {
		return "", errors.New("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}

	switch {
	case dbURL != "":
		return dbURL, nil
	case mysqlURL != "":
		if strings.HasPrefix(mysqlURL, "mysql://") {
			return mysqlURL, nil
		}
		return "mysql://" + mysqlURL, nil
	case sqlitePath != "":
		if strings.HasPrefix(sqlitePath, "sqlite://") {
			return sqlitePath, nil
		}
		return "sqlite://" + sqlitePath, nil
	default:
		return fallback, nil
	}
}

// parseTableList splits a comma-separated flag value
func parseTableList(tables string) []string {
	if tables == "" {
		return nil
	}

	tableList := strings.Split(tables, ",")
	for i, t := range tableList {
		tableList[i] = strings.TrimSpace(t)
	}
	return tableList
}

// openOutput returns stdout or the named file
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create output file")
	}
	return f, func() {
		if err := f.Close(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to close output file: %v\n", err)
		}
	}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
