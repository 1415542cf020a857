package sample

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tordrt/shopschema/internal/catalog"
)

// Dataset is the rows written by Load with their generated keys filled in
type Dataset struct {
	Customers             []Customer
	Profiles              []CustomerProfile
	Addresses             []Address
	Suppliers             []Supplier
	Categories            []Category
	Products              []Product
	ProductCategories     []ProductCategory
	InventoryTransactions []InventoryTransaction
	Orders                []Order
	OrderItems            []OrderItem
	Payments              []Payment
	Reviews               []ProductReview
	ActivityLogs          []ActivityLog
}

// Rows counts every row in the dataset
func (d *Dataset) Rows() int {
	return len(d.Customers) + len(d.Profiles) + len(d.Addresses) + len(d.Suppliers) +
		len(d.Categories) + len(d.Products) + len(d.ProductCategories) + len(d.InventoryTransactions) +
		len(d.Orders) + len(d.OrderItems) + len(d.Payments) + len(d.Reviews) + len(d.ActivityLogs)
}

// Load inserts the sample dataset in one transaction, parents first. The
// target tables are expected to be empty.
func Load(ctx context.Context, gdb *gorm.DB, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dataset{}
	start := time.Now()

	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			table string
			fn    func(*gorm.DB) error
		}{
			{catalog.Customers, d.createCustomers},
			{catalog.Suppliers, d.createSuppliers},
			{catalog.Categories, d.createCategories},
			{catalog.Products, d.createProducts},
			{catalog.Orders, d.createOrders},
			{catalog.ProductReviews, d.createReviews},
			{catalog.ActivityLogs, d.createActivityLogs},
		}

		for _, step := range steps {
			if err := step.fn(tx); err != nil {
				return errors.Wrapf(err, "failed to load %s", step.table)
			}
		}
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "Sample load failed", slog.String("error", err.Error()))
		return nil, err
	}

	logger.InfoContext(ctx, "Sample data loaded",
		slog.Int("rows", d.Rows()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return d, nil
}

// createCustomers also writes the rows that hang off a customer
func (d *Dataset) createCustomers(tx *gorm.DB) error {
	d.Customers = []Customer{
		{Email: "alice@example.com", PasswordHash: "$2a$10$alicehash", FirstName: "Alice", LastName: "Martin", Phone: ptr("+1-555-0100"), IsActive: true},
		{Email: "bob@example.com", PasswordHash: "$2a$10$bobhash", FirstName: "Bob", LastName: "Okafor", IsActive: true},
		{Email: "carol@example.com", PasswordHash: "$2a$10$carolhash", FirstName: "Carol", LastName: "Nguyen", IsActive: false},
	}
	if err := tx.Create(&d.Customers).Error; err != nil {
		return err
	}

	alice, bob := d.Customers[0].CustomerID, d.Customers[1].CustomerID

	d.Profiles = []CustomerProfile{
		{
			CustomerID:    alice,
			DateOfBirth:   ptr(time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC)),
			Gender:        ptr(catalog.GenderFemale),
			LoyaltyPoints: 120,
			Preferences:   datatypes.JSON(`{"newsletter":true,"currency":"USD"}`),
		},
		{CustomerID: bob, Gender: ptr(catalog.GenderPreferNotToSay)},
	}
	if err := tx.Create(&d.Profiles).Error; err != nil {
		return errors.Wrap(err, catalog.CustomerProfiles)
	}

	d.Addresses = []Address{
		{CustomerID: alice, AddressType: catalog.AddressBoth, StreetLine1: "12 Harbour Road", City: "Portland", State: ptr("OR"), PostalCode: "97201", Country: "US", IsDefault: true},
		{CustomerID: alice, AddressType: catalog.AddressShipping, StreetLine1: "400 Market Street", StreetLine2: ptr("Suite 9"), City: "Seattle", State: ptr("WA"), PostalCode: "98101", Country: "US"},
		{CustomerID: bob, AddressType: catalog.AddressBilling, StreetLine1: "7 Quay Lane", City: "Dublin", PostalCode: "D02", Country: "IE", IsDefault: true},
	}
	if err := tx.Create(&d.Addresses).Error; err != nil {
		return errors.Wrap(err, catalog.Addresses)
	}
	return nil
}

func (d *Dataset) createSuppliers(tx *gorm.DB) error {
	d.Suppliers = []Supplier{
		{Name: "Acme Audio", ContactName: ptr("Dana Reyes"), ContactEmail: ptr("sales@acme-audio.example")},
		{Name: "Paper Trail Books", ContactEmail: ptr("orders@papertrail.example")},
	}
	return tx.Create(&d.Suppliers).Error
}

func (d *Dataset) createCategories(tx *gorm.DB) error {
	roots := []Category{
		{Name: "Electronics", Slug: "electronics"},
		{Name: "Books", Slug: "books"},
	}
	if err := tx.Create(&roots).Error; err != nil {
		return err
	}

	children := []Category{
		{Name: "Audio", Slug: "audio", ParentID: &roots[0].CategoryID},
		{Name: "Cables", Slug: "cables", ParentID: &roots[0].CategoryID},
	}
	if err := tx.Create(&children).Error; err != nil {
		return err
	}

	d.Categories = append(roots, children...)
	return nil
}

// createProducts also writes category links and opening stock
func (d *Dataset) createProducts(tx *gorm.DB) error {
	acme, paper := d.Suppliers[0].SupplierID, d.Suppliers[1].SupplierID

	d.Products = []Product{
		{SKU: "AUD-HP-001", Name: "Studio Headphones", Price: 10.00, Cost: ptr(6.50), StockQuantity: 50, SupplierID: &acme, IsActive: true},
		{SKU: "CAB-USB-002", Name: "USB-C Cable", Price: 5.00, Cost: ptr(1.20), StockQuantity: 200, SupplierID: &acme, IsActive: true},
		{SKU: "BK-NOV-003", Name: "The Long Harbour", Description: ptr("Paperback novel"), Price: 12.50, StockQuantity: 30, SupplierID: &paper, IsActive: true},
	}
	if err := tx.Create(&d.Products).Error; err != nil {
		return err
	}

	headphones, cable, novel := d.Products[0].ProductID, d.Products[1].ProductID, d.Products[2].ProductID
	electronics, books, audio, cables := d.Categories[0].CategoryID, d.Categories[1].CategoryID, d.Categories[2].CategoryID, d.Categories[3].CategoryID

	d.ProductCategories = []ProductCategory{
		{ProductID: headphones, CategoryID: electronics},
		{ProductID: headphones, CategoryID: audio},
		{ProductID: cable, CategoryID: electronics},
		{ProductID: cable, CategoryID: cables},
		{ProductID: novel, CategoryID: books},
	}
	if err := tx.Create(&d.ProductCategories).Error; err != nil {
		return errors.Wrap(err, catalog.ProductCategories)
	}

	d.InventoryTransactions = []InventoryTransaction{
		{ProductID: headphones, TransactionType: catalog.InventoryPurchase, Quantity: 52, ReferenceCode: ptr("PO-1001")},
		{ProductID: cable, TransactionType: catalog.InventoryPurchase, Quantity: 201, ReferenceCode: ptr("PO-1001")},
		{ProductID: novel, TransactionType: catalog.InventoryPurchase, Quantity: 32, ReferenceCode: ptr("PO-1002")},
		{ProductID: headphones, TransactionType: catalog.InventorySale, Quantity: -2, ReferenceCode: ptr("ORDER-1")},
		{ProductID: cable, TransactionType: catalog.InventorySale, Quantity: -1, ReferenceCode: ptr("ORDER-1")},
		{ProductID: novel, TransactionType: catalog.InventorySale, Quantity: -2, ReferenceCode: ptr("ORDER-2")},
	}
	if err := tx.Create(&d.InventoryTransactions).Error; err != nil {
		return errors.Wrap(err, catalog.InventoryTransactions)
	}
	return nil
}

// createOrders writes orders with their lines and payments. The second order
// stores a subtotal that disagrees with its lines.
func (d *Dataset) createOrders(tx *gorm.DB) error {
	alice, bob := d.Customers[0].CustomerID, d.Customers[1].CustomerID
	home, office, bobHome := d.Addresses[0].AddressID, d.Addresses[1].AddressID, d.Addresses[2].AddressID

	d.Orders = []Order{
		{
			CustomerID: alice, BillingAddressID: &home, ShippingAddressID: &office,
			OrderStatus: catalog.OrderDelivered, PaymentStatus: catalog.OrderPaymentPaid,
			Subtotal: 24.00, ShippingCost: 4.99, TaxAmount: 1.92, TotalAmount: 30.91,
		},
		{
			CustomerID: bob, BillingAddressID: &bobHome, ShippingAddressID: &bobHome,
			OrderStatus: catalog.OrderProcessing, PaymentStatus: catalog.OrderPaymentPending,
			Subtotal: 30.00, ShippingCost: 0, TaxAmount: 2.40, TotalAmount: 32.40,
			Notes: ptr("Gift wrap"),
		},
		{
			CustomerID: alice, OrderStatus: catalog.OrderPending, PaymentStatus: catalog.OrderPaymentPending,
		},
	}
	if err := tx.Create(&d.Orders).Error; err != nil {
		return err
	}

	first, second := d.Orders[0].OrderID, d.Orders[1].OrderID
	headphones, cable, novel := d.Products[0].ProductID, d.Products[1].ProductID, d.Products[2].ProductID

	d.OrderItems = []OrderItem{
		{OrderID: first, ProductID: headphones, Quantity: 2, UnitPrice: 10.00},
		{OrderID: first, ProductID: cable, Quantity: 1, UnitPrice: 5.00, Discount: 1.00},
		{OrderID: second, ProductID: novel, Quantity: 2, UnitPrice: 12.50},
	}
	if err := tx.Create(&d.OrderItems).Error; err != nil {
		return errors.Wrap(err, catalog.OrderItems)
	}

	paidAt := time.Date(2026, time.January, 5, 10, 30, 0, 0, time.UTC)
	d.Payments = []Payment{
		{OrderID: first, PaymentMethod: catalog.MethodCreditCard, Amount: 30.91, TransactionReference: ptr("TXN-0001"), Status: catalog.PaymentCompleted, PaidAt: &paidAt},
		{OrderID: second, PaymentMethod: catalog.MethodPayPal, Amount: 32.40, TransactionReference: ptr("TXN-0002"), Status: catalog.PaymentFailed},
		{OrderID: second, PaymentMethod: catalog.MethodBankTransfer, Amount: 32.40, Status: catalog.PaymentPending},
	}
	if err := tx.Create(&d.Payments).Error; err != nil {
		return errors.Wrap(err, catalog.Payments)
	}
	return nil
}

func (d *Dataset) createReviews(tx *gorm.DB) error {
	alice, carol := d.Customers[0].CustomerID, d.Customers[2].CustomerID

	d.Reviews = []ProductReview{
		{ProductID: d.Products[0].ProductID, CustomerID: &alice, Rating: 5, Title: ptr("Great sound")},
		{ProductID: d.Products[1].ProductID, CustomerID: &carol, Rating: 3, Body: ptr("Works, a bit short.")},
	}
	return tx.Create(&d.Reviews).Error
}

func (d *Dataset) createActivityLogs(tx *gorm.DB) error {
	alice := d.Customers[0].CustomerID
	first := d.Orders[0].OrderID

	d.ActivityLogs = []ActivityLog{
		{ActorType: catalog.ActorSystem, ActivityType: "sample.loaded"},
		{ActorType: catalog.ActorCustomer, ActorID: &alice, ActivityType: "order.placed", EntityType: ptr(catalog.Orders), EntityID: &first,
			Details: datatypes.JSON(`{"items":2}`)},
		{ActorType: catalog.ActorAdmin, ActorID: ptr(int64(1)), ActivityType: "order.shipped", EntityType: ptr(catalog.Orders), EntityID: &first},
	}
	return tx.Create(&d.ActivityLogs).Error
}

func ptr[T any](v T) *T {
	return &v
}
