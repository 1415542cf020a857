package ddl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/shopschema/internal/catalog"
	"github.com/tordrt/shopschema/internal/schema"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{input: "postgres", want: Postgres},
		{input: "PostgreSQL", want: Postgres},
		{input: "pg", want: Postgres},
		{input: "mysql", want: MySQL},
		{input: " sqlite3 ", want: SQLite},
		{input: "oracle", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func statementFor(t *testing.T, stmts []string, prefix string) string {
	t.Helper()
	for _, stmt := range stmts {
		if strings.HasPrefix(stmt, prefix) {
			return stmt
		}
	}
	t.Fatalf("no statement starting with %q", prefix)
	return ""
}

func indexOf(stmts []string, prefix string) int {
	for i, stmt := range stmts {
		if strings.HasPrefix(stmt, prefix) {
			return i
		}
	}
	return -1
}

func TestCreate_ParentsBeforeChildren(t *testing.T) {
	for _, d := range []Dialect{Postgres, MySQL, SQLite} {
		t.Run(string(d), func(t *testing.T) {
			s := catalog.Commerce()
			stmts, err := NewRenderer(d).Create(s)
			require.NoError(t, err)

			for _, table := range s.Tables {
				pos := indexOf(stmts, "CREATE TABLE "+table.Name+" (")
				require.GreaterOrEqual(t, pos, 0, table.Name)
				for _, rel := range table.Relations {
					if rel.TargetTable == table.Name {
						continue
					}
					parent := indexOf(stmts, "CREATE TABLE "+rel.TargetTable+" (")
					assert.Less(t, parent, pos, "%s must be created before %s", rel.TargetTable, table.Name)
				}
			}

			view := indexOf(stmts, "CREATE VIEW order_summary AS")
			assert.Equal(t, len(stmts)-1, view)
		})
	}
}

func TestCreate_Postgres(t *testing.T) {
	stmts, err := NewRenderer(Postgres).Create(catalog.Commerce())
	require.NoError(t, err)

	assert.Equal(t, "CREATE TYPE orders_order_status AS ENUM ('pending', 'processing', 'shipped', 'delivered', 'cancelled', 'refunded')",
		statementFor(t, stmts, "CREATE TYPE orders_order_status"))

	addresses := statementFor(t, stmts, "CREATE TABLE addresses (")
	assert.Contains(t, addresses, "address_id SERIAL NOT NULL")
	assert.Contains(t, addresses, "address_type addresses_address_type NOT NULL DEFAULT 'both'")
	assert.Contains(t, addresses, "CONSTRAINT pk_addresses PRIMARY KEY (address_id)")
	assert.Contains(t, addresses, "CONSTRAINT fk_addresses_customer_id FOREIGN KEY (customer_id) REFERENCES customers (customer_id) ON DELETE CASCADE")

	products := statementFor(t, stmts, "CREATE TABLE products (")
	assert.Contains(t, products, "price NUMERIC(10,2) NOT NULL")
	assert.Contains(t, products, "CONSTRAINT uq_products_sku UNIQUE (sku)")
	assert.Contains(t, products, "CONSTRAINT chk_products_price_non_negative CHECK (price >= 0)")

	profiles := statementFor(t, stmts, "CREATE TABLE customer_profiles (")
	assert.Contains(t, profiles, "preferences JSONB")
	assert.NotContains(t, profiles, "preferences JSONB NOT NULL")

	items := statementFor(t, stmts, "CREATE TABLE order_items (")
	assert.Contains(t, items, "CONSTRAINT pk_order_items PRIMARY KEY (order_id, product_id)")
	assert.Contains(t, items, "REFERENCES products (product_id) ON DELETE RESTRICT")

	assert.Contains(t, stmts, "CREATE INDEX idx_addresses_customer_id ON addresses (customer_id)")
	assert.Contains(t, stmts, "CREATE INDEX idx_activity_logs_actor ON activity_logs (actor_type, actor_id)")
}

func TestCreate_MySQL(t *testing.T) {
	stmts, err := NewRenderer(MySQL).Create(catalog.Commerce())
	require.NoError(t, err)

	assert.Equal(t, -1, indexOf(stmts, "CREATE TYPE"))

	orders := statementFor(t, stmts, "CREATE TABLE orders (")
	assert.Contains(t, orders, "order_id INT NOT NULL AUTO_INCREMENT")
	assert.Contains(t, orders, "order_status ENUM('pending', 'processing', 'shipped', 'delivered', 'cancelled', 'refunded') NOT NULL DEFAULT 'pending'")
	assert.Contains(t, orders, "created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP")
	assert.Contains(t, orders, "ON DELETE SET NULL")
	assert.True(t, strings.HasSuffix(orders, ") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"))

	logs := statementFor(t, stmts, "CREATE TABLE activity_logs (")
	assert.Contains(t, logs, "details JSON")
	assert.NotContains(t, logs, "FOREIGN KEY")
}

func TestCreate_SQLite(t *testing.T) {
	stmts, err := NewRenderer(SQLite).Create(catalog.Commerce())
	require.NoError(t, err)

	customers := statementFor(t, stmts, "CREATE TABLE customers (")
	assert.Contains(t, customers, "customer_id INTEGER PRIMARY KEY AUTOINCREMENT,")
	assert.NotContains(t, customers, "pk_customers")
	assert.Contains(t, customers, "CONSTRAINT uq_customers_email UNIQUE (email)")

	reviews := statementFor(t, stmts, "CREATE TABLE product_reviews (")
	assert.Contains(t, reviews, "CONSTRAINT chk_product_reviews_rating_range CHECK (rating BETWEEN 1 AND 5)")

	payments := statementFor(t, stmts, "CREATE TABLE payments (")
	assert.Contains(t, payments, "payment_method TEXT NOT NULL")
	assert.Contains(t, payments, "CONSTRAINT chk_payments_payment_method CHECK (payment_method IN ('credit_card', 'debit_card', 'paypal', 'bank_transfer', 'cash_on_delivery'))")

	profiles := statementFor(t, stmts, "CREATE TABLE customer_profiles (")
	assert.Contains(t, profiles, "CONSTRAINT pk_customer_profiles PRIMARY KEY (customer_id)")
}

func TestCreate_RejectsInvalidSchema(t *testing.T) {
	s := catalog.Commerce()
	s.Table(catalog.Addresses).Relations[0].TargetColumn = "address_id"

	_, err := NewRenderer(Postgres).Create(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "addresses.customer_id references unknown column customers.address_id")
}

func TestCreate_UnknownColumnType(t *testing.T) {
	s := &schema.Schema{Tables: []schema.Table{{
		Name:       "blobs",
		Columns:    []schema.Column{{Name: "id", Type: schema.TypeSerial}, {Name: "data", Type: "bytea"}},
		PrimaryKey: []string{"id"},
	}}}

	_, err := NewRenderer(SQLite).Create(s)
	assert.EqualError(t, err, `blobs.data: unknown column type "bytea"`)
}

func TestDrop(t *testing.T) {
	s := catalog.Commerce()

	stmts, err := NewRenderer(Postgres).Drop(s)
	require.NoError(t, err)

	assert.Equal(t, "DROP VIEW IF EXISTS order_summary", stmts[0])
	assert.Less(t, indexOf(stmts, "DROP TABLE IF EXISTS order_items"), indexOf(stmts, "DROP TABLE IF EXISTS orders"))
	assert.Less(t, indexOf(stmts, "DROP TABLE IF EXISTS orders"), indexOf(stmts, "DROP TABLE IF EXISTS customers"))
	assert.Greater(t, indexOf(stmts, "DROP TYPE IF EXISTS orders_order_status"), indexOf(stmts, "DROP TABLE IF EXISTS customers"))

	sqlite, err := NewRenderer(SQLite).Drop(s)
	require.NoError(t, err)
	assert.Equal(t, -1, indexOf(sqlite, "DROP TYPE"))
	assert.Len(t, sqlite, len(s.Tables)+len(s.Views))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX i ON a (id)"}))
	assert.Equal(t, "CREATE TABLE a (id INTEGER);\n\nCREATE INDEX i ON a (id);\n", buf.String())
}
