// Package ddl renders a declared schema into CREATE and DROP statements for
// PostgreSQL, MySQL and SQLite.
package ddl

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/tordrt/shopschema/internal/schema"
)

// Dialect identifies a SQL engine
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// ParseDialect accepts the usual spellings of the supported engines
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", errors.Errorf("unsupported dialect %q (must be postgres, mysql or sqlite)", name)
	}
}

// EnumTypeName is the PostgreSQL type created for an enum column
func EnumTypeName(table, column string) string {
	return table + "_" + column
}

// columnType maps a logical column type to the dialect's spelling
func (d Dialect) columnType(table string, col schema.Column) (string, error) {
	logical := strings.ToLower(col.Type)

	switch {
	case strings.HasPrefix(logical, "varchar("):
		return strings.ToUpper(logical), nil
	case strings.HasPrefix(logical, "decimal("):
		if d == Postgres {
			return "NUMERIC" + logical[len("decimal"):], nil
		}
		return strings.ToUpper(logical), nil
	}

	switch logical {
	case schema.TypeSerial:
		switch d {
		case Postgres:
			return "SERIAL", nil
		case MySQL:
			return "INT", nil
		default:
			return "INTEGER PRIMARY KEY AUTOINCREMENT", nil
		}
	case schema.TypeInteger:
		if d == MySQL {
			return "INT", nil
		}
		return "INTEGER", nil
	case schema.TypeText:
		return "TEXT", nil
	case schema.TypeBoolean:
		return "BOOLEAN", nil
	case schema.TypeDate:
		return "DATE", nil
	case schema.TypeTimestamp:
		if d == MySQL {
			return "DATETIME", nil
		}
		return "TIMESTAMP", nil
	case schema.TypeJSON:
		switch d {
		case Postgres:
			return "JSONB", nil
		case MySQL:
			return "JSON", nil
		default:
			return "TEXT", nil
		}
	case schema.TypeEnum:
		switch d {
		case Postgres:
			return EnumTypeName(table, col.Name), nil
		case MySQL:
			return fmt.Sprintf("ENUM(%s)", quoteList(col.EnumValues)), nil
		default:
			return "TEXT", nil
		}
	}

	return "", errors.Errorf("%s.%s: unknown column type %q", table, col.Name, col.Type)
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}
