package catalog

// Enumerated column values. Any value may follow any other; the schema
// restricts the set, not the transitions.

// Order lifecycle status (orders.order_status)
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
	OrderRefunded   = "refunded"
)

// Order payment status (orders.payment_status)
const (
	OrderPaymentPending  = "pending"
	OrderPaymentPaid     = "paid"
	OrderPaymentFailed   = "failed"
	OrderPaymentRefunded = "refunded"
)

// Payment attempt status (payments.status)
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment methods (payments.payment_method)
const (
	MethodCreditCard     = "credit_card"
	MethodDebitCard      = "debit_card"
	MethodPayPal         = "paypal"
	MethodBankTransfer   = "bank_transfer"
	MethodCashOnDelivery = "cash_on_delivery"
)

// Address usage (addresses.address_type)
const (
	AddressBilling  = "billing"
	AddressShipping = "shipping"
	AddressBoth     = "both"
)

// Inventory movement kinds (inventory_transactions.transaction_type)
const (
	InventoryPurchase   = "purchase"
	InventorySale       = "sale"
	InventoryReturn     = "return"
	InventoryAdjustment = "adjustment"
)

// Activity log actors (activity_logs.actor_type)
const (
	ActorCustomer = "customer"
	ActorAdmin    = "admin"
	ActorSystem   = "system"
)

// Profile gender (customer_profiles.gender)
const (
	GenderMale           = "male"
	GenderFemale         = "female"
	GenderOther          = "other"
	GenderPreferNotToSay = "prefer_not_to_say"
)

var (
	OrderStatuses        = []string{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderRefunded}
	OrderPaymentStatuses = []string{OrderPaymentPending, OrderPaymentPaid, OrderPaymentFailed, OrderPaymentRefunded}
	PaymentStatuses      = []string{PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded}
	PaymentMethods       = []string{MethodCreditCard, MethodDebitCard, MethodPayPal, MethodBankTransfer, MethodCashOnDelivery}
	AddressTypes         = []string{AddressBilling, AddressShipping, AddressBoth}
	InventoryTypes       = []string{InventoryPurchase, InventorySale, InventoryReturn, InventoryAdjustment}
	ActorTypes           = []string{ActorCustomer, ActorAdmin, ActorSystem}
	Genders              = []string{GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay}
)
