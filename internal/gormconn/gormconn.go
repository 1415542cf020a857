// Package gormconn opens gorm handles over the same connection strings the
// schema clients use.
package gormconn

import (
	"log/slog"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tordrt/shopschema/internal/config"
	"github.com/tordrt/shopschema/internal/db"
	"github.com/tordrt/shopschema/internal/ddl"
)

// Open connects gorm to connString for dialect d. SQLite paths get foreign
// key enforcement and MySQL DSNs get parseTime, matching the db clients.
func Open(d ddl.Dialect, connString string, logger *slog.Logger, cfg config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch d {
	case ddl.Postgres:
		dialector = postgres.Open(connString)
	case ddl.MySQL:
		dsn, err := db.MySQLDSN(connString)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn)
	case ddl.SQLite:
		dialector = sqlite.Open(db.SQLiteDSN(connString))
	default:
		return nil, errors.Errorf("unsupported dialect %q", d)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		// Writes that need atomicity run inside explicit Transaction calls
		SkipDefaultTransaction: true,
		Logger:                 NewLogger(logger, cfg),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s with gorm", d)
	}

	return gdb, nil
}

// Close releases the pool behind gdb
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}
	return sqlDB.Close()
}
