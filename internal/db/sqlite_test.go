package db

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/shopschema/internal/catalog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newShopDB migrates the commerce model into a fresh SQLite file
func newShopDB(t *testing.T) *SQLiteClient {
	t.Helper()
	ctx := context.Background()

	client, err := NewSQLiteClient(ctx, filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, NewMigrator(client, discardLogger()).Migrate(ctx, catalog.Commerce(), MigrateOptions{}))
	return client
}

func insertID(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()
	res, err := db.Exec(query, args...)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	_, err := db.Exec(query, args...)
	require.NoError(t, err)
}

func count(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func addCustomer(t *testing.T, db *sql.DB, email string) int64 {
	return insertID(t, db,
		`INSERT INTO customers (email, password_hash, first_name, last_name) VALUES (?, 'x', 'Test', 'User')`, email)
}

func addProduct(t *testing.T, db *sql.DB, sku string, price float64) int64 {
	return insertID(t, db, `INSERT INTO products (sku, name, price) VALUES (?, ?, ?)`, sku, sku, price)
}

func addOrder(t *testing.T, db *sql.DB, customerID int64) int64 {
	return insertID(t, db, `INSERT INTO orders (customer_id) VALUES (?)`, customerID)
}

func TestProfileSharesCustomerKey(t *testing.T) {
	db := newShopDB(t).GetDB()
	customer := addCustomer(t, db, "alice@example.com")

	mustExec(t, db, `INSERT INTO customer_profiles (customer_id) VALUES (?)`, customer)

	_, err := db.Exec(`INSERT INTO customer_profiles (customer_id, bio) VALUES (?, 'again')`, customer)
	require.Error(t, err)
	assert.True(t, IsViolation(err, ViolationUnique), "got %v", err)

	_, err = db.Exec(`INSERT INTO customer_profiles (customer_id) VALUES (999)`)
	assert.True(t, IsViolation(err, ViolationForeignKey), "got %v", err)
}

func TestDeleteCustomer(t *testing.T) {
	t.Run("restricted by orders", func(t *testing.T) {
		db := newShopDB(t).GetDB()
		customer := addCustomer(t, db, "alice@example.com")
		addOrder(t, db, customer)

		_, err := db.Exec(`DELETE FROM customers WHERE customer_id = ?`, customer)
		require.Error(t, err)
		assert.True(t, IsViolation(err, ViolationForeignKey), "got %v", err)
		assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM customers`))
	})

	t.Run("cascades to profile and addresses", func(t *testing.T) {
		db := newShopDB(t).GetDB()
		customer := addCustomer(t, db, "bob@example.com")
		other := addCustomer(t, db, "carol@example.com")
		mustExec(t, db, `INSERT INTO customer_profiles (customer_id) VALUES (?)`, customer)
		mustExec(t, db, `INSERT INTO addresses (customer_id, street_line1, city, postal_code, country) VALUES (?, '1 Main St', 'Oslo', '0150', 'NO')`, customer)
		mustExec(t, db, `INSERT INTO addresses (customer_id, street_line1, city, postal_code, country) VALUES (?, '2 Main St', 'Oslo', '0150', 'NO')`, other)

		mustExec(t, db, `DELETE FROM customers WHERE customer_id = ?`, customer)

		assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM customer_profiles`))
		assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM addresses`))
		assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM addresses WHERE customer_id = ?`, other))
	})

	t.Run("keeps reviews without author", func(t *testing.T) {
		db := newShopDB(t).GetDB()
		customer := addCustomer(t, db, "dave@example.com")
		product := addProduct(t, db, "SKU-1", 10)
		mustExec(t, db, `INSERT INTO product_reviews (product_id, customer_id, rating) VALUES (?, ?, 4)`, product, customer)

		mustExec(t, db, `DELETE FROM customers WHERE customer_id = ?`, customer)

		assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM product_reviews WHERE customer_id IS NULL`))
	})
}

func TestDeleteAddressDetachesOrders(t *testing.T) {
	db := newShopDB(t).GetDB()
	customer := addCustomer(t, db, "alice@example.com")
	address := insertID(t, db, `INSERT INTO addresses (customer_id, street_line1, city, postal_code, country) VALUES (?, '1 Main St', 'Oslo', '0150', 'NO')`, customer)
	order := insertID(t, db, `INSERT INTO orders (customer_id, billing_address_id, shipping_address_id) VALUES (?, ?, ?)`, customer, address, address)

	mustExec(t, db, `DELETE FROM addresses WHERE address_id = ?`, address)

	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM orders WHERE order_id = ? AND billing_address_id IS NULL AND shipping_address_id IS NULL`, order))
}

func TestDeleteCategoryDetachesChildren(t *testing.T) {
	db := newShopDB(t).GetDB()
	parent := insertID(t, db, `INSERT INTO categories (name, slug) VALUES ('Books', 'books')`)
	insertID(t, db, `INSERT INTO categories (name, slug, parent_id) VALUES ('Fiction', 'fiction', ?)`, parent)
	insertID(t, db, `INSERT INTO categories (name, slug, parent_id) VALUES ('Poetry', 'poetry', ?)`, parent)

	mustExec(t, db, `DELETE FROM categories WHERE category_id = ?`, parent)

	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM categories`))
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM categories WHERE parent_id IS NULL`))
}

func TestOrderItemQuantity(t *testing.T) {
	db := newShopDB(t).GetDB()
	order := addOrder(t, db, addCustomer(t, db, "alice@example.com"))
	product := addProduct(t, db, "SKU-1", 10)

	_, err := db.Exec(`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, 0, 10)`, order, product)
	require.Error(t, err)
	assert.True(t, IsViolation(err, ViolationCheck), "got %v", err)

	mustExec(t, db, `INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, 1, 10)`, order, product)
}

func TestOrderItemCompositeKey(t *testing.T) {
	db := newShopDB(t).GetDB()
	order := addOrder(t, db, addCustomer(t, db, "alice@example.com"))
	first := addProduct(t, db, "SKU-1", 10)
	second := addProduct(t, db, "SKU-2", 5)

	mustExec(t, db, `INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, 1, 10)`, order, first)

	_, err := db.Exec(`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, 3, 10)`, order, first)
	require.Error(t, err)
	assert.True(t, IsViolation(err, ViolationUnique), "got %v", err)

	mustExec(t, db, `INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, 1, 5)`, order, second)
}

func TestDeleteProduct(t *testing.T) {
	t.Run("restricted by order lines", func(t *testing.T) {
		db := newShopDB(t).GetDB()
		order := addOrder(t, db, addCustomer(t, db, "alice@example.com"))
		product := addProduct(t, db, "SKU-1", 10)
		mustExec(t, db, `INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, 1, 10)`, order, product)

		_, err := db.Exec(`DELETE FROM products WHERE product_id = ?`, product)
		require.Error(t, err)
		assert.True(t, IsViolation(err, ViolationForeignKey), "got %v", err)
	})

	t.Run("cascades inventory reviews and categories", func(t *testing.T) {
		db := newShopDB(t).GetDB()
		product := addProduct(t, db, "SKU-1", 10)
		category := insertID(t, db, `INSERT INTO categories (name, slug) VALUES ('Audio', 'audio')`)
		mustExec(t, db, `INSERT INTO product_categories (product_id, category_id) VALUES (?, ?)`, product, category)
		mustExec(t, db, `INSERT INTO inventory_transactions (product_id, transaction_type, quantity) VALUES (?, 'purchase', 50)`, product)
		mustExec(t, db, `INSERT INTO inventory_transactions (product_id, transaction_type, quantity) VALUES (?, 'sale', -2)`, product)
		mustExec(t, db, `INSERT INTO product_reviews (product_id, rating) VALUES (?, 5)`, product)

		mustExec(t, db, `DELETE FROM products WHERE product_id = ?`, product)

		assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM inventory_transactions`))
		assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM product_reviews`))
		assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM product_categories`))
		assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM categories`))
	})
}

func TestDeleteOrderCascadesLinesAndPayments(t *testing.T) {
	db := newShopDB(t).GetDB()
	order := addOrder(t, db, addCustomer(t, db, "alice@example.com"))
	product := addProduct(t, db, "SKU-1", 10)
	mustExec(t, db, `INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, 1, 10)`, order, product)
	mustExec(t, db, `INSERT INTO payments (order_id, payment_method, amount) VALUES (?, 'paypal', 10)`, order)

	mustExec(t, db, `DELETE FROM orders WHERE order_id = ?`, order)

	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM order_items`))
	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM payments`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM products`))
}

func TestOrderSummaryComputedTotal(t *testing.T) {
	db := newShopDB(t).GetDB()
	order := addOrder(t, db, addCustomer(t, db, "alice@example.com"))
	empty := addOrder(t, db, addCustomer(t, db, "bob@example.com"))
	headphones := addProduct(t, db, "SKU-1", 10)
	cable := addProduct(t, db, "SKU-2", 5)
	mustExec(t, db, `INSERT INTO order_items (order_id, product_id, quantity, unit_price, discount) VALUES (?, ?, 2, 10.00, 0.00)`, order, headphones)
	mustExec(t, db, `INSERT INTO order_items (order_id, product_id, quantity, unit_price, discount) VALUES (?, ?, 1, 5.00, 1.00)`, order, cable)

	var items, quantity int
	var computed float64
	require.NoError(t, db.QueryRow(
		`SELECT item_count, total_quantity, computed_total FROM order_summary WHERE order_id = ?`, order,
	).Scan(&items, &quantity, &computed))
	assert.Equal(t, 2, items)
	assert.Equal(t, 3, quantity)
	assert.InDelta(t, 24.00, computed, 0.001)

	require.NoError(t, db.QueryRow(
		`SELECT item_count, total_quantity, computed_total FROM order_summary WHERE order_id = ?`, empty,
	).Scan(&items, &quantity, &computed))
	assert.Equal(t, 0, items)
	assert.Equal(t, 0, quantity)
	assert.Zero(t, computed)
}

func TestConstraintViolations(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, db *sql.DB)
		query string
		kind  ViolationKind
	}{
		{
			name:  "duplicate email",
			setup: func(t *testing.T, db *sql.DB) { addCustomer(t, db, "alice@example.com") },
			query: `INSERT INTO customers (email, password_hash, first_name, last_name) VALUES ('alice@example.com', 'x', 'A', 'B')`,
			kind:  ViolationUnique,
		},
		{
			name:  "duplicate sku",
			setup: func(t *testing.T, db *sql.DB) { addProduct(t, db, "SKU-1", 10) },
			query: `INSERT INTO products (sku, name, price) VALUES ('SKU-1', 'Other', 3)`,
			kind:  ViolationUnique,
		},
		{
			name: "duplicate slug",
			setup: func(t *testing.T, db *sql.DB) {
				mustExec(t, db, `INSERT INTO categories (name, slug) VALUES ('Books', 'books')`)
			},
			query: `INSERT INTO categories (name, slug) VALUES ('Other books', 'books')`,
			kind:  ViolationUnique,
		},
		{
			name: "duplicate transaction reference",
			setup: func(t *testing.T, db *sql.DB) {
				order := addOrder(t, db, addCustomer(t, db, "alice@example.com"))
				mustExec(t, db, `INSERT INTO payments (order_id, payment_method, amount, transaction_reference) VALUES (?, 'paypal', 1, 'TXN-1')`, order)
			},
			query: `INSERT INTO payments (order_id, payment_method, amount, transaction_reference) VALUES (1, 'paypal', 1, 'TXN-1')`,
			kind:  ViolationUnique,
		},
		{
			name: "duplicate product category",
			setup: func(t *testing.T, db *sql.DB) {
				addProduct(t, db, "SKU-1", 10)
				mustExec(t, db, `INSERT INTO categories (name, slug) VALUES ('Books', 'books')`)
				mustExec(t, db, `INSERT INTO product_categories (product_id, category_id) VALUES (1, 1)`)
			},
			query: `INSERT INTO product_categories (product_id, category_id) VALUES (1, 1)`,
			kind:  ViolationUnique,
		},
		{
			name:  "rating above range",
			setup: func(t *testing.T, db *sql.DB) { addProduct(t, db, "SKU-1", 10) },
			query: `INSERT INTO product_reviews (product_id, rating) VALUES (1, 6)`,
			kind:  ViolationCheck,
		},
		{
			name:  "rating below range",
			setup: func(t *testing.T, db *sql.DB) { addProduct(t, db, "SKU-1", 10) },
			query: `INSERT INTO product_reviews (product_id, rating) VALUES (1, 0)`,
			kind:  ViolationCheck,
		},
		{
			name:  "negative price",
			query: `INSERT INTO products (sku, name, price) VALUES ('SKU-1', 'Broken', -1)`,
			kind:  ViolationCheck,
		},
		{
			name:  "negative stock",
			query: `INSERT INTO products (sku, name, price, stock_quantity) VALUES ('SKU-1', 'Broken', 1, -1)`,
			kind:  ViolationCheck,
		},
		{
			name:  "unknown order status",
			setup: func(t *testing.T, db *sql.DB) { addCustomer(t, db, "alice@example.com") },
			query: `INSERT INTO orders (customer_id, order_status) VALUES (1, 'lost')`,
			kind:  ViolationCheck,
		},
		{
			name:  "negative order total",
			setup: func(t *testing.T, db *sql.DB) { addCustomer(t, db, "alice@example.com") },
			query: `INSERT INTO orders (customer_id, total_amount) VALUES (1, -5)`,
			kind:  ViolationCheck,
		},
		{
			name:  "unknown payment method",
			setup: func(t *testing.T, db *sql.DB) { addOrder(t, db, addCustomer(t, db, "alice@example.com")) },
			query: `INSERT INTO payments (order_id, payment_method, amount) VALUES (1, 'barter', 1)`,
			kind:  ViolationCheck,
		},
		{
			name:  "address for missing customer",
			query: `INSERT INTO addresses (customer_id, street_line1, city, postal_code, country) VALUES (42, '1 Main St', 'Oslo', '0150', 'NO')`,
			kind:  ViolationForeignKey,
		},
		{
			name:  "order for missing customer",
			query: `INSERT INTO orders (customer_id) VALUES (42)`,
			kind:  ViolationForeignKey,
		},
		{
			name:  "delete customer with orders",
			setup: func(t *testing.T, db *sql.DB) { addOrder(t, db, addCustomer(t, db, "alice@example.com")) },
			query: `DELETE FROM customers WHERE customer_id = 1`,
			kind:  ViolationForeignKey,
		},
		{
			name: "delete product on an order line",
			setup: func(t *testing.T, db *sql.DB) {
				product := addProduct(t, db, "SKU-1", 10)
				order := addOrder(t, db, addCustomer(t, db, "alice@example.com"))
				mustExec(t, db, `INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, 1, 10)`, order, product)
			},
			query: `DELETE FROM products WHERE product_id = 1`,
			kind:  ViolationForeignKey,
		},
		{
			name:  "missing email",
			query: `INSERT INTO customers (password_hash, first_name, last_name) VALUES ('x', 'A', 'B')`,
			kind:  ViolationNotNull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newShopDB(t).GetDB()
			if tt.setup != nil {
				tt.setup(t, db)
			}

			_, err := db.Exec(tt.query)
			require.Error(t, err)

			v, ok := ClassifyViolation(err)
			require.True(t, ok, "unclassified error: %v", err)
			assert.Equal(t, tt.kind, v.Kind, "got %v", err)
		})
	}
}

func TestNullTransactionReferencesDoNotCollide(t *testing.T) {
	db := newShopDB(t).GetDB()
	order := addOrder(t, db, addCustomer(t, db, "alice@example.com"))

	mustExec(t, db, `INSERT INTO payments (order_id, payment_method, amount) VALUES (?, 'paypal', 1)`, order)
	mustExec(t, db, `INSERT INTO payments (order_id, payment_method, amount) VALUES (?, 'paypal', 1)`, order)
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM payments WHERE transaction_reference IS NULL`))
}

func TestActivityLogsAcceptAnyActor(t *testing.T) {
	db := newShopDB(t).GetDB()

	mustExec(t, db, `INSERT INTO activity_logs (actor_type, actor_id, activity_type, details) VALUES ('admin', 12345, 'login', '{"ip":"10.0.0.1"}')`)
	mustExec(t, db, `INSERT INTO activity_logs (actor_type, activity_type) VALUES ('system', 'reindex')`)
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM activity_logs`))
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "shop.db", want: "file:shop.db?_foreign_keys=on"},
		{path: "file:shop.db?cache=shared", want: "file:shop.db?cache=shared&_foreign_keys=on"},
		{path: "shop.db?_foreign_keys=off", want: "file:shop.db?_foreign_keys=on"},
		{path: "file:shop.db?_fk=0&mode=rwc", want: "file:shop.db?mode=rwc&_foreign_keys=on"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, SQLiteDSN(tt.path))
		})
	}
}

func TestSQLiteClient_ForeignKeysCannotBeDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")
	client, err := NewSQLiteClient(context.Background(), path+"?_foreign_keys=off")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	var enabled int
	require.NoError(t, client.GetDB().QueryRow(`PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)
}
