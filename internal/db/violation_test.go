package db

import (
	"database/sql"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       ViolationKind
		constraint string
		ok         bool
	}{
		{
			name:       "postgres unique",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "uq_customers_email"},
			want:       ViolationUnique,
			constraint: "uq_customers_email",
			ok:         true,
		},
		{
			name:       "postgres restrict",
			err:        &pgconn.PgError{Code: "23001", ConstraintName: "fk_orders_customer_id"},
			want:       ViolationForeignKey,
			constraint: "fk_orders_customer_id",
			ok:         true,
		},
		{
			name: "postgres foreign key wrapped",
			err:  errors.Wrap(&pgconn.PgError{Code: "23503"}, "insert order"),
			want: ViolationForeignKey,
			ok:   true,
		},
		{
			name: "postgres check",
			err:  &pgconn.PgError{Code: "23514"},
			want: ViolationCheck,
			ok:   true,
		},
		{
			name: "postgres enum input is not a constraint",
			err:  &pgconn.PgError{Code: "22P02"},
		},
		{
			name: "mysql duplicate",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
			want: ViolationUnique,
			ok:   true,
		},
		{
			name: "mysql row referenced",
			err:  &mysql.MySQLError{Number: 1451},
			want: ViolationForeignKey,
			ok:   true,
		},
		{
			name: "mysql missing parent",
			err:  errors.Wrap(&mysql.MySQLError{Number: 1452}, "insert address"),
			want: ViolationForeignKey,
			ok:   true,
		},
		{
			name: "mysql check",
			err:  &mysql.MySQLError{Number: 3819},
			want: ViolationCheck,
			ok:   true,
		},
		{
			name: "mysql null",
			err:  &mysql.MySQLError{Number: 1048},
			want: ViolationNotNull,
			ok:   true,
		},
		{
			name: "mysql syntax",
			err:  &mysql.MySQLError{Number: 1064},
		},
		{
			name: "sqlite primary key",
			err:  sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey},
			want: ViolationUnique,
			ok:   true,
		},
		{
			name: "sqlite foreign key",
			err:  sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey},
			want: ViolationForeignKey,
			ok:   true,
		},
		{
			name: "sqlite check",
			err:  sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck},
			want: ViolationCheck,
			ok:   true,
		},
		{
			name: "sqlite trigger abort",
			err:  sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintTrigger},
		},
		{
			name: "sqlite busy",
			err:  sqlite3.Error{Code: sqlite3.ErrBusy},
		},
		{
			name: "statement error keeps its cause",
			err:  &StatementError{Index: 2, Statement: "INSERT", Err: &pgconn.PgError{Code: "23505"}},
			want: ViolationUnique,
			ok:   true,
		},
		{
			name: "plain error",
			err:  sql.ErrNoRows,
		},
		{
			name: "nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ClassifyViolation(tt.err)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Nil(t, v)
				return
			}
			assert.Equal(t, tt.want, v.Kind)
			assert.Equal(t, tt.constraint, v.Constraint)
			assert.ErrorIs(t, v, tt.err)
		})
	}
}

func TestClassifyViolation_AlreadyClassified(t *testing.T) {
	original := &Violation{Kind: ViolationCheck, Constraint: "chk_product_reviews_rating_range", Err: errors.New("boom")}

	v, ok := ClassifyViolation(errors.Wrap(original, "insert review"))
	require.True(t, ok)
	assert.Same(t, original, v)
	assert.True(t, IsViolation(original, ViolationCheck))
	assert.False(t, IsViolation(original, ViolationUnique))
}

func TestViolation_Error(t *testing.T) {
	named := &Violation{Kind: ViolationUnique, Constraint: "uq_products_sku", Err: errors.New("duplicate")}
	assert.Equal(t, "unique violation on uq_products_sku: duplicate", named.Error())

	anonymous := &Violation{Kind: ViolationForeignKey, Err: errors.New("FOREIGN KEY constraint failed")}
	assert.Equal(t, "foreign_key violation: FOREIGN KEY constraint failed", anonymous.Error())
}
