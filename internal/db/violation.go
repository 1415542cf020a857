package db

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// ViolationKind names the constraint family that rejected a write
type ViolationKind string

const (
	ViolationUnique     ViolationKind = "unique"
	ViolationForeignKey ViolationKind = "foreign_key"
	ViolationCheck      ViolationKind = "check"
	ViolationNotNull    ViolationKind = "not_null"
)

// Violation is a write rejected by a schema constraint
type Violation struct {
	Kind       ViolationKind
	Constraint string // empty when the engine does not report it
	Err        error
}

func (v *Violation) Error() string {
	if v.Constraint != "" {
		return fmt.Sprintf("%s violation on %s: %v", v.Kind, v.Constraint, v.Err)
	}
	return fmt.Sprintf("%s violation: %v", v.Kind, v.Err)
}

func (v *Violation) Unwrap() error {
	return v.Err
}

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgRestrictViolation   = "23001"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// MySQL server error numbers
const (
	myDupEntry           = 1062
	myRowIsReferenced    = 1451
	myNoReferencedRow    = 1452
	myRowIsReferencedOld = 1217
	myNoReferencedRowOld = 1216
	myCheckViolated      = 3819
	myBadNull            = 1048
	myNoDefaultForField  = 1364
)

// ClassifyViolation reports whether err is a constraint rejection raised by
// PostgreSQL, MySQL or SQLite, and which kind.
func ClassifyViolation(err error) (*Violation, bool) {
	if err == nil {
		return nil, false
	}

	var existing *Violation
	if errors.As(err, &existing) {
		return existing, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind, ok := pgKind(pgErr.Code)
		if !ok {
			return nil, false
		}
		return &Violation{Kind: kind, Constraint: pgErr.ConstraintName, Err: err}, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		kind, ok := mysqlKind(myErr.Number)
		if !ok {
			return nil, false
		}
		return &Violation{Kind: kind, Err: err}, true
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		kind, ok := sqliteKind(liteErr)
		if !ok {
			return nil, false
		}
		return &Violation{Kind: kind, Err: err}, true
	}

	return nil, false
}

// IsViolation reports whether err is a constraint rejection of the given kind
func IsViolation(err error, kind ViolationKind) bool {
	v, ok := ClassifyViolation(err)
	return ok && v.Kind == kind
}

func pgKind(code string) (ViolationKind, bool) {
	switch code {
	case pgUniqueViolation:
		return ViolationUnique, true
	case pgForeignKeyViolation, pgRestrictViolation:
		return ViolationForeignKey, true
	case pgCheckViolation:
		return ViolationCheck, true
	case pgNotNullViolation:
		return ViolationNotNull, true
	}
	return "", false
}

func mysqlKind(number uint16) (ViolationKind, bool) {
	switch number {
	case myDupEntry:
		return ViolationUnique, true
	case myRowIsReferenced, myNoReferencedRow, myRowIsReferencedOld, myNoReferencedRowOld:
		return ViolationForeignKey, true
	case myCheckViolated:
		return ViolationCheck, true
	case myBadNull, myNoDefaultForField:
		return ViolationNotNull, true
	}
	return "", false
}

func sqliteKind(err sqlite3.Error) (ViolationKind, bool) {
	if err.Code != sqlite3.ErrConstraint {
		return "", false
	}
	switch err.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ViolationUnique, true
	case sqlite3.ErrConstraintForeignKey:
		return ViolationForeignKey, true
	case sqlite3.ErrConstraintTrigger:
		// ON DELETE RESTRICT is enforced through the FK trigger path
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return ViolationForeignKey, true
		}
	case sqlite3.ErrConstraintCheck:
		return ViolationCheck, true
	case sqlite3.ErrConstraintNotNull:
		return ViolationNotNull, true
	}
	return "", false
}
