// Package sample holds a small e-commerce dataset and loads it through gorm.
package sample

import (
	"time"

	"gorm.io/datatypes"

	"github.com/tordrt/shopschema/internal/catalog"
)

// Customer maps customers
type Customer struct {
	CustomerID   int64     `gorm:"column:customer_id;primaryKey"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Phone        *string   `gorm:"column:phone"`
	IsActive     bool      `gorm:"column:is_active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Customer) TableName() string { return catalog.Customers }

// CustomerProfile maps customer_profiles. The key is the owning customer's.
type CustomerProfile struct {
	CustomerID    int64          `gorm:"column:customer_id;primaryKey;autoIncrement:false"`
	DateOfBirth   *time.Time     `gorm:"column:date_of_birth"`
	Gender        *string        `gorm:"column:gender"`
	AvatarURL     *string        `gorm:"column:avatar_url"`
	Bio           *string        `gorm:"column:bio"`
	LoyaltyPoints int            `gorm:"column:loyalty_points"`
	Preferences   datatypes.JSON `gorm:"column:preferences"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (CustomerProfile) TableName() string { return catalog.CustomerProfiles }

type Address struct {
	AddressID   int64     `gorm:"column:address_id;primaryKey"`
	CustomerID  int64     `gorm:"column:customer_id"`
	AddressType string    `gorm:"column:address_type"`
	StreetLine1 string    `gorm:"column:street_line1"`
	StreetLine2 *string   `gorm:"column:street_line2"`
	City        string    `gorm:"column:city"`
	State       *string   `gorm:"column:state"`
	PostalCode  string    `gorm:"column:postal_code"`
	Country     string    `gorm:"column:country"`
	IsDefault   bool      `gorm:"column:is_default"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Address) TableName() string { return catalog.Addresses }

type Supplier struct {
	SupplierID   int64     `gorm:"column:supplier_id;primaryKey"`
	Name         string    `gorm:"column:name"`
	ContactName  *string   `gorm:"column:contact_name"`
	ContactEmail *string   `gorm:"column:contact_email"`
	Phone        *string   `gorm:"column:phone"`
	Address      *string   `gorm:"column:address"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (Supplier) TableName() string { return catalog.Suppliers }

type Category struct {
	CategoryID  int64     `gorm:"column:category_id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Slug        string    `gorm:"column:slug"`
	Description *string   `gorm:"column:description"`
	ParentID    *int64    `gorm:"column:parent_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Category) TableName() string { return catalog.Categories }

type Product struct {
	ProductID     int64     `gorm:"column:product_id;primaryKey"`
	SKU           string    `gorm:"column:sku"`
	Name          string    `gorm:"column:name"`
	Description   *string   `gorm:"column:description"`
	Price         float64   `gorm:"column:price"`
	Cost          *float64  `gorm:"column:cost"`
	StockQuantity int       `gorm:"column:stock_quantity"`
	SupplierID    *int64    `gorm:"column:supplier_id"`
	IsActive      bool      `gorm:"column:is_active"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (Product) TableName() string { return catalog.Products }

type ProductCategory struct {
	ProductID  int64 `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	CategoryID int64 `gorm:"column:category_id;primaryKey;autoIncrement:false"`
}

func (ProductCategory) TableName() string { return catalog.ProductCategories }

type InventoryTransaction struct {
	TransactionID   int64     `gorm:"column:transaction_id;primaryKey"`
	ProductID       int64     `gorm:"column:product_id"`
	TransactionType string    `gorm:"column:transaction_type"`
	Quantity        int       `gorm:"column:quantity"`
	ReferenceCode   *string   `gorm:"column:reference_code"`
	Notes           *string   `gorm:"column:notes"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (InventoryTransaction) TableName() string { return catalog.InventoryTransactions }

type Order struct {
	OrderID           int64     `gorm:"column:order_id;primaryKey"`
	CustomerID        int64     `gorm:"column:customer_id"`
	BillingAddressID  *int64    `gorm:"column:billing_address_id"`
	ShippingAddressID *int64    `gorm:"column:shipping_address_id"`
	OrderStatus       string    `gorm:"column:order_status"`
	PaymentStatus     string    `gorm:"column:payment_status"`
	Subtotal          float64   `gorm:"column:subtotal"`
	ShippingCost      float64   `gorm:"column:shipping_cost"`
	TaxAmount         float64   `gorm:"column:tax_amount"`
	TotalAmount       float64   `gorm:"column:total_amount"`
	Notes             *string   `gorm:"column:notes"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (Order) TableName() string { return catalog.Orders }

// OrderItem maps order_items. UnitPrice is captured when the order is placed.
type OrderItem struct {
	OrderID   int64   `gorm:"column:order_id;primaryKey;autoIncrement:false"`
	ProductID int64   `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	Quantity  int     `gorm:"column:quantity"`
	UnitPrice float64 `gorm:"column:unit_price"`
	Discount  float64 `gorm:"column:discount"`
}

func (OrderItem) TableName() string { return catalog.OrderItems }

type Payment struct {
	PaymentID            int64      `gorm:"column:payment_id;primaryKey"`
	OrderID              int64      `gorm:"column:order_id"`
	PaymentMethod        string     `gorm:"column:payment_method"`
	Amount               float64    `gorm:"column:amount"`
	TransactionReference *string    `gorm:"column:transaction_reference"`
	Status               string     `gorm:"column:status"`
	PaidAt               *time.Time `gorm:"column:paid_at"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
}

func (Payment) TableName() string { return catalog.Payments }

type ProductReview struct {
	ReviewID   int64     `gorm:"column:review_id;primaryKey"`
	ProductID  int64     `gorm:"column:product_id"`
	CustomerID *int64    `gorm:"column:customer_id"`
	Rating     int       `gorm:"column:rating"`
	Title      *string   `gorm:"column:title"`
	Body       *string   `gorm:"column:body"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (ProductReview) TableName() string { return catalog.ProductReviews }

// ActivityLog maps activity_logs. ActorID is read according to ActorType.
type ActivityLog struct {
	LogID        int64          `gorm:"column:log_id;primaryKey"`
	ActorType    string         `gorm:"column:actor_type"`
	ActorID      *int64         `gorm:"column:actor_id"`
	ActivityType string         `gorm:"column:activity_type"`
	EntityType   *string        `gorm:"column:entity_type"`
	EntityID     *int64         `gorm:"column:entity_id"`
	Details      datatypes.JSON `gorm:"column:details"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
}

func (ActivityLog) TableName() string { return catalog.ActivityLogs }
