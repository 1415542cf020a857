// Package catalog declares the e-commerce data model: tables, keys, foreign
// keys with their ON DELETE policy, checks, enumerations, indexes and the
// order_summary view.
package catalog

import (
	"fmt"
	"slices"

	"github.com/tordrt/shopschema/internal/schema"
)

// Table names
const (
	Customers             = "customers"
	CustomerProfiles      = "customer_profiles"
	Addresses             = "addresses"
	Suppliers             = "suppliers"
	Categories            = "categories"
	Products              = "products"
	ProductCategories     = "product_categories"
	InventoryTransactions = "inventory_transactions"
	Orders                = "orders"
	OrderItems            = "order_items"
	Payments              = "payments"
	ProductReviews        = "product_reviews"
	ActivityLogs          = "activity_logs"

	OrderSummary = "order_summary"
)

const money = "decimal(10,2)"

var (
	defaultNow   = str("CURRENT_TIMESTAMP")
	defaultTrue  = str("TRUE")
	defaultFalse = str("FALSE")
	defaultZero  = str("0")
)

// Commerce returns a fresh copy of the declared model. Tables are listed in
// dependency order.
func Commerce() *schema.Schema {
	s := &schema.Schema{
		Tables: []schema.Table{
			customers(),
			customerProfiles(),
			addresses(),
			suppliers(),
			categories(),
			products(),
			productCategories(),
			inventoryTransactions(),
			orders(),
			orderItems(),
			payments(),
			productReviews(),
			activityLogs(),
		},
		Views: []schema.View{orderSummary()},
	}

	for i := range s.Tables {
		table := &s.Tables[i]
		for j := range table.Columns {
			detach(&table.Columns[j])
		}
		for j := range table.Relations {
			table.Relations[j].Cardinality = schema.InferCardinality(table, table.Relations[j])
		}
	}

	return s
}

// detach copies the values a column shares with package-level declarations
func detach(col *schema.Column) {
	col.EnumValues = slices.Clone(col.EnumValues)
	if col.DefaultValue != nil {
		v := *col.DefaultValue
		col.DefaultValue = &v
	}
}

func customers() schema.Table {
	return schema.Table{
		Name:    Customers,
		Comment: "Customer identity and credentials. Hub entity.",
		Columns: []schema.Column{
			{Name: "customer_id", Type: schema.TypeSerial},
			{Name: "email", Type: varchar(255), IsUnique: true},
			{Name: "password_hash", Type: varchar(255)},
			{Name: "first_name", Type: varchar(100)},
			{Name: "last_name", Type: varchar(100)},
			{Name: "phone", Type: varchar(30), Nullable: true},
			{Name: "is_active", Type: schema.TypeBoolean, DefaultValue: defaultTrue},
			{Name: "created_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
			{Name: "updated_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"customer_id"},
	}
}

func customerProfiles() schema.Table {
	return schema.Table{
		Name:    CustomerProfiles,
		Comment: "Optional extended customer attributes. Shares the customer's key, so at most one per customer.",
		Columns: []schema.Column{
			{Name: "customer_id", Type: schema.TypeInteger},
			{Name: "date_of_birth", Type: schema.TypeDate, Nullable: true},
			{Name: "gender", Type: schema.TypeEnum, Nullable: true, EnumValues: Genders},
			{Name: "avatar_url", Type: varchar(500), Nullable: true},
			{Name: "bio", Type: schema.TypeText, Nullable: true},
			{Name: "loyalty_points", Type: schema.TypeInteger, DefaultValue: defaultZero},
			{Name: "preferences", Type: schema.TypeJSON, Nullable: true},
			{Name: "updated_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"customer_id"},
		Relations: []schema.Relation{
			{SourceColumn: "customer_id", TargetTable: Customers, TargetColumn: "customer_id", OnDelete: schema.Cascade},
		},
		Checks: []schema.Check{
			{Name: "loyalty_points_non_negative", Columns: []string{"loyalty_points"}, Expr: "loyalty_points >= 0"},
		},
	}
}

func addresses() schema.Table {
	return schema.Table{
		Name:    Addresses,
		Comment: "Postal addresses owned by a customer.",
		Columns: []schema.Column{
			{Name: "address_id", Type: schema.TypeSerial},
			{Name: "customer_id", Type: schema.TypeInteger},
			{Name: "address_type", Type: schema.TypeEnum, EnumValues: AddressTypes, DefaultValue: str(quote(AddressBoth))},
			{Name: "street_line1", Type: varchar(255)},
			{Name: "street_line2", Type: varchar(255), Nullable: true},
			{Name: "city", Type: varchar(100)},
			{Name: "state", Type: varchar(100), Nullable: true},
			{Name: "postal_code", Type: varchar(20)},
			{Name: "country", Type: varchar(100)},
			{Name: "is_default", Type: schema.TypeBoolean, DefaultValue: defaultFalse},
			{Name: "created_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"address_id"},
		Relations: []schema.Relation{
			{SourceColumn: "customer_id", TargetTable: Customers, TargetColumn: "customer_id", OnDelete: schema.Cascade},
		},
		Indexes: []schema.Index{
			{Name: "idx_addresses_customer_id", Columns: []string{"customer_id"}},
		},
	}
}

func suppliers() schema.Table {
	return schema.Table{
		Name: Suppliers,
		Columns: []schema.Column{
			{Name: "supplier_id", Type: schema.TypeSerial},
			{Name: "name", Type: varchar(200)},
			{Name: "contact_name", Type: varchar(100), Nullable: true},
			{Name: "contact_email", Type: varchar(255), Nullable: true},
			{Name: "phone", Type: varchar(30), Nullable: true},
			{Name: "address", Type: schema.TypeText, Nullable: true},
			{Name: "created_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"supplier_id"},
	}
}

func categories() schema.Table {
	return schema.Table{
		Name:    Categories,
		Comment: "Category tree. Deleting a parent detaches its children instead of deleting them.",
		Columns: []schema.Column{
			{Name: "category_id", Type: schema.TypeSerial},
			{Name: "name", Type: varchar(100)},
			{Name: "slug", Type: varchar(120), IsUnique: true},
			{Name: "description", Type: schema.TypeText, Nullable: true},
			{Name: "parent_id", Type: schema.TypeInteger, Nullable: true},
			{Name: "created_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"category_id"},
		Relations: []schema.Relation{
			{SourceColumn: "parent_id", TargetTable: Categories, TargetColumn: "category_id", OnDelete: schema.SetNull},
		},
		Indexes: []schema.Index{
			{Name: "idx_categories_parent_id", Columns: []string{"parent_id"}},
		},
	}
}

func products() schema.Table {
	return schema.Table{
		Name:    Products,
		Comment: "Catalog items. Hub entity.",
		Columns: []schema.Column{
			{Name: "product_id", Type: schema.TypeSerial},
			{Name: "sku", Type: varchar(64), IsUnique: true},
			{Name: "name", Type: varchar(200)},
			{Name: "description", Type: schema.TypeText, Nullable: true},
			{Name: "price", Type: money},
			{Name: "cost", Type: money, Nullable: true},
			{Name: "stock_quantity", Type: schema.TypeInteger, DefaultValue: defaultZero},
			{Name: "supplier_id", Type: schema.TypeInteger, Nullable: true},
			{Name: "is_active", Type: schema.TypeBoolean, DefaultValue: defaultTrue},
			{Name: "created_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
			{Name: "updated_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"product_id"},
		Relations: []schema.Relation{
			{SourceColumn: "supplier_id", TargetTable: Suppliers, TargetColumn: "supplier_id", OnDelete: schema.SetNull},
		},
		Checks: []schema.Check{
			{Name: "price_non_negative", Columns: []string{"price"}, Expr: "price >= 0"},
			{Name: "cost_non_negative", Columns: []string{"cost"}, Expr: "cost IS NULL OR cost >= 0"},
			{Name: "stock_non_negative", Columns: []string{"stock_quantity"}, Expr: "stock_quantity >= 0"},
		},
		Indexes: []schema.Index{
			{Name: "idx_products_supplier_id", Columns: []string{"supplier_id"}},
		},
	}
}

func productCategories() schema.Table {
	return schema.Table{
		Name:    ProductCategories,
		Comment: "Product/category junction. The composite key forbids duplicate associations.",
		Columns: []schema.Column{
			{Name: "product_id", Type: schema.TypeInteger},
			{Name: "category_id", Type: schema.TypeInteger},
		},
		PrimaryKey: []string{"product_id", "category_id"},
		Relations: []schema.Relation{
			{SourceColumn: "product_id", TargetTable: Products, TargetColumn: "product_id", OnDelete: schema.Cascade},
			{SourceColumn: "category_id", TargetTable: Categories, TargetColumn: "category_id", OnDelete: schema.Cascade},
		},
		Indexes: []schema.Index{
			{Name: "idx_product_categories_category_id", Columns: []string{"category_id"}},
		},
	}
}

func inventoryTransactions() schema.Table {
	return schema.Table{
		Name:    InventoryTransactions,
		Comment: "Stock movements. Quantity is signed by the movement kind, not by the schema.",
		Columns: []schema.Column{
			{Name: "transaction_id", Type: schema.TypeSerial},
			{Name: "product_id", Type: schema.TypeInteger},
			{Name: "transaction_type", Type: schema.TypeEnum, EnumValues: InventoryTypes},
			{Name: "quantity", Type: schema.TypeInteger},
			{Name: "reference_code", Type: varchar(100), Nullable: true},
			{Name: "notes", Type: schema.TypeText, Nullable: true},
			{Name: "created_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"transaction_id"},
		Relations: []schema.Relation{
			{SourceColumn: "product_id", TargetTable: Products, TargetColumn: "product_id", OnDelete: schema.Cascade},
		},
		Indexes: []schema.Index{
			{Name: "idx_inventory_transactions_product_id", Columns: []string{"product_id"}},
		},
	}
}

func orders() schema.Table {
	return schema.Table{
		Name:    Orders,
		Comment: "Customer orders. A customer with orders cannot be deleted.",
		Columns: []schema.Column{
			{Name: "order_id", Type: schema.TypeSerial},
			{Name: "customer_id", Type: schema.TypeInteger},
			{Name: "billing_address_id", Type: schema.TypeInteger, Nullable: true},
			{Name: "shipping_address_id", Type: schema.TypeInteger, Nullable: true},
			{Name: "order_status", Type: schema.TypeEnum, EnumValues: OrderStatuses, DefaultValue: str(quote(OrderPending))},
			{Name: "payment_status", Type: schema.TypeEnum, EnumValues: OrderPaymentStatuses, DefaultValue: str(quote(OrderPaymentPending))},
			{Name: "subtotal", Type: money, DefaultValue: defaultZero},
			{Name: "shipping_cost", Type: money, DefaultValue: defaultZero},
			{Name: "tax_amount", Type: money, DefaultValue: defaultZero},
			{Name: "total_amount", Type: money, DefaultValue: defaultZero},
			{Name: "notes", Type: schema.TypeText, Nullable: true},
			{Name: "created_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
			{Name: "updated_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"order_id"},
		Relations: []schema.Relation{
			{SourceColumn: "customer_id", TargetTable: Customers, TargetColumn: "customer_id", OnDelete: schema.Restrict},
			{SourceColumn: "billing_address_id", TargetTable: Addresses, TargetColumn: "address_id", OnDelete: schema.SetNull},
			{SourceColumn: "shipping_address_id", TargetTable: Addresses, TargetColumn: "address_id", OnDelete: schema.SetNull},
		},
		Checks: []schema.Check{
			{
				Name:    "amounts_non_negative",
				Columns: []string{"subtotal", "shipping_cost", "tax_amount", "total_amount"},
				Expr:    "subtotal >= 0 AND shipping_cost >= 0 AND tax_amount >= 0 AND total_amount >= 0",
			},
		},
		Indexes: []schema.Index{
			{Name: "idx_orders_customer_id", Columns: []string{"customer_id"}},
			{Name: "idx_orders_billing_address_id", Columns: []string{"billing_address_id"}},
			{Name: "idx_orders_shipping_address_id", Columns: []string{"shipping_address_id"}},
			{Name: "idx_orders_order_status", Columns: []string{"order_status"}},
		},
	}
}

func orderItems() schema.Table {
	return schema.Table{
		Name:    OrderItems,
		Comment: "Order lines, one per product per order. unit_price is the price at order time.",
		Columns: []schema.Column{
			{Name: "order_id", Type: schema.TypeInteger},
			{Name: "product_id", Type: schema.TypeInteger},
			{Name: "quantity", Type: schema.TypeInteger},
			{Name: "unit_price", Type: money},
			{Name: "discount", Type: money, DefaultValue: defaultZero},
		},
		PrimaryKey: []string{"order_id", "product_id"},
		Relations: []schema.Relation{
			{SourceColumn: "order_id", TargetTable: Orders, TargetColumn: "order_id", OnDelete: schema.Cascade},
			{SourceColumn: "product_id", TargetTable: Products, TargetColumn: "product_id", OnDelete: schema.Restrict},
		},
		Checks: []schema.Check{
			{Name: "quantity_positive", Columns: []string{"quantity"}, Expr: "quantity > 0"},
			{Name: "unit_price_non_negative", Columns: []string{"unit_price"}, Expr: "unit_price >= 0"},
			{Name: "discount_non_negative", Columns: []string{"discount"}, Expr: "discount >= 0"},
		},
		Indexes: []schema.Index{
			{Name: "idx_order_items_product_id", Columns: []string{"product_id"}},
		},
	}
}

func payments() schema.Table {
	return schema.Table{
		Name: Payments,
		Columns: []schema.Column{
			{Name: "payment_id", Type: schema.TypeSerial},
			{Name: "order_id", Type: schema.TypeInteger},
			{Name: "payment_method", Type: schema.TypeEnum, EnumValues: PaymentMethods},
			{Name: "amount", Type: money},
			{Name: "transaction_reference", Type: varchar(100), Nullable: true, IsUnique: true},
			{Name: "status", Type: schema.TypeEnum, EnumValues: PaymentStatuses, DefaultValue: str(quote(PaymentPending))},
			{Name: "paid_at", Type: schema.TypeTimestamp, Nullable: true},
			{Name: "created_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"payment_id"},
		Relations: []schema.Relation{
			{SourceColumn: "order_id", TargetTable: Orders, TargetColumn: "order_id", OnDelete: schema.Cascade},
		},
		Checks: []schema.Check{
			{Name: "amount_non_negative", Columns: []string{"amount"}, Expr: "amount >= 0"},
		},
		Indexes: []schema.Index{
			{Name: "idx_payments_order_id", Columns: []string{"order_id"}},
		},
	}
}

func productReviews() schema.Table {
	return schema.Table{
		Name:    ProductReviews,
		Comment: "Reviews survive the deletion of their author.",
		Columns: []schema.Column{
			{Name: "review_id", Type: schema.TypeSerial},
			{Name: "product_id", Type: schema.TypeInteger},
			{Name: "customer_id", Type: schema.TypeInteger, Nullable: true},
			{Name: "rating", Type: schema.TypeInteger},
			{Name: "title", Type: varchar(200), Nullable: true},
			{Name: "body", Type: schema.TypeText, Nullable: true},
			{Name: "created_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"review_id"},
		Relations: []schema.Relation{
			{SourceColumn: "product_id", TargetTable: Products, TargetColumn: "product_id", OnDelete: schema.Cascade},
			{SourceColumn: "customer_id", TargetTable: Customers, TargetColumn: "customer_id", OnDelete: schema.SetNull},
		},
		Checks: []schema.Check{
			{Name: "rating_range", Columns: []string{"rating"}, Expr: "rating BETWEEN 1 AND 5"},
		},
		Indexes: []schema.Index{
			{Name: "idx_product_reviews_product_id", Columns: []string{"product_id"}},
			{Name: "idx_product_reviews_customer_id", Columns: []string{"customer_id"}},
		},
	}
}

func activityLogs() schema.Table {
	return schema.Table{
		Name:    ActivityLogs,
		Comment: "Append-only audit trail. actor_id is interpreted by actor_type and has no foreign key.",
		Columns: []schema.Column{
			{Name: "log_id", Type: schema.TypeSerial},
			{Name: "actor_type", Type: schema.TypeEnum, EnumValues: ActorTypes},
			{Name: "actor_id", Type: schema.TypeInteger, Nullable: true},
			{Name: "activity_type", Type: varchar(50)},
			{Name: "entity_type", Type: varchar(50), Nullable: true},
			{Name: "entity_id", Type: schema.TypeInteger, Nullable: true},
			{Name: "details", Type: schema.TypeJSON, Nullable: true},
			{Name: "created_at", Type: schema.TypeTimestamp, DefaultValue: defaultNow},
		},
		PrimaryKey: []string{"log_id"},
		Indexes: []schema.Index{
			{Name: "idx_activity_logs_actor", Columns: []string{"actor_type", "actor_id"}},
			{Name: "idx_activity_logs_entity", Columns: []string{"entity_type", "entity_id"}},
		},
	}
}

func orderSummary() schema.View {
	return schema.View{
		Name:    OrderSummary,
		Comment: "Per-order line aggregates. computed_total is not reconciled against the stored amounts.",
		Definition: `SELECT
    o.order_id,
    o.customer_id,
    o.order_status,
    o.payment_status,
    o.subtotal,
    o.total_amount,
    COUNT(oi.product_id) AS item_count,
    COALESCE(SUM(oi.quantity), 0) AS total_quantity,
    COALESCE(SUM(oi.unit_price * oi.quantity - oi.discount), 0) AS computed_total,
    o.created_at
FROM orders o
LEFT JOIN order_items oi ON oi.order_id = o.order_id
GROUP BY o.order_id, o.customer_id, o.order_status, o.payment_status, o.subtotal, o.total_amount, o.created_at`,
		DependsOn: []string{Orders, OrderItems},
	}
}

func varchar(n int) string {
	return fmt.Sprintf("varchar(%d)", n)
}

func quote(s string) string {
	return "'" + s + "'"
}

func str(s string) *string {
	return &s
}
