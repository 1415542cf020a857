package sample

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tordrt/shopschema/internal/catalog"
	"github.com/tordrt/shopschema/internal/config"
	"github.com/tordrt/shopschema/internal/db"
	"github.com/tordrt/shopschema/internal/ddl"
	"github.com/tordrt/shopschema/internal/gormconn"
)

func openShop(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "shop.db")

	client, err := db.NewSQLiteClient(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.NewMigrator(client, logger).Migrate(ctx, catalog.Commerce(), db.MigrateOptions{}))
	require.NoError(t, client.Close())

	gdb, err := gormconn.Open(ddl.SQLite, path, logger, config.Database{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormconn.Close(gdb) })
	return gdb
}

func TestLoad(t *testing.T) {
	gdb := openShop(t)

	d, err := Load(context.Background(), gdb, nil)
	require.NoError(t, err)

	tests := []struct {
		table string
		want  int
	}{
		{catalog.Customers, len(d.Customers)},
		{catalog.CustomerProfiles, len(d.Profiles)},
		{catalog.Addresses, len(d.Addresses)},
		{catalog.Suppliers, len(d.Suppliers)},
		{catalog.Categories, len(d.Categories)},
		{catalog.Products, len(d.Products)},
		{catalog.ProductCategories, len(d.ProductCategories)},
		{catalog.InventoryTransactions, len(d.InventoryTransactions)},
		{catalog.Orders, len(d.Orders)},
		{catalog.OrderItems, len(d.OrderItems)},
		{catalog.Payments, len(d.Payments)},
		{catalog.ProductReviews, len(d.Reviews)},
		{catalog.ActivityLogs, len(d.ActivityLogs)},
	}

	total := 0
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			var n int64
			require.NoError(t, gdb.Table(tt.table).Count(&n).Error)
			assert.Positive(t, n)
			assert.Equal(t, int64(tt.want), n)
		})
		total += tt.want
	}
	assert.Equal(t, total, d.Rows())
}

func TestLoad_KeysAreThreaded(t *testing.T) {
	gdb := openShop(t)

	d, err := Load(context.Background(), gdb, nil)
	require.NoError(t, err)

	for _, c := range d.Customers {
		assert.NotZero(t, c.CustomerID)
	}
	assert.Equal(t, d.Customers[0].CustomerID, d.Profiles[0].CustomerID)

	var profile CustomerProfile
	require.NoError(t, gdb.First(&profile, "customer_id = ?", d.Customers[0].CustomerID).Error)
	assert.Equal(t, 120, profile.LoyaltyPoints)
	assert.JSONEq(t, `{"newsletter":true,"currency":"USD"}`, string(profile.Preferences))

	var order Order
	require.NoError(t, gdb.First(&order, d.Orders[0].OrderID).Error)
	require.NotNil(t, order.BillingAddressID)
	assert.Equal(t, d.Addresses[0].AddressID, *order.BillingAddressID)
}

func TestLoad_Twice(t *testing.T) {
	gdb := openShop(t)

	_, err := Load(context.Background(), gdb, nil)
	require.NoError(t, err)

	_, err = Load(context.Background(), gdb, nil)
	require.Error(t, err)
	assert.True(t, db.IsViolation(err, db.ViolationUnique), "got %v", err)

	var n int64
	require.NoError(t, gdb.Model(&Customer{}).Count(&n).Error)
	assert.Equal(t, int64(3), n, "second load must roll back")
}

func TestLoad_RespectsPolicies(t *testing.T) {
	gdb := openShop(t)

	d, err := Load(context.Background(), gdb, nil)
	require.NoError(t, err)

	err = gdb.Delete(&Customer{}, d.Customers[0].CustomerID).Error
	assert.True(t, db.IsViolation(err, db.ViolationForeignKey), "got %v", err)

	// carol has a review but no orders
	carol := d.Customers[2].CustomerID
	require.NoError(t, gdb.Delete(&Customer{}, carol).Error)

	var review ProductReview
	require.NoError(t, gdb.First(&review, d.Reviews[1].ReviewID).Error)
	assert.Nil(t, review.CustomerID)
}
