package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{OrderPending, OrderShipped, OrderDelivered, OrderCancelled}

// ParseOrderStatus accepts any casing and returns the canonical value.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range orderStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "Unpaid"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)

var paymentStatuses = []PaymentStatus{PaymentUnpaid, PaymentPaid, PaymentRefunded}

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range paymentStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

type Order struct {
	ID              int64           `db:"id" json:"id"`
	Reference       string          `db:"reference" json:"reference"`
	UserID          int64           `db:"user_id" json:"user_id"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status          OrderStatus     `db:"status" json:"status"`
	PaymentStatus   PaymentStatus   `db:"payment_status" json:"payment_status"`
	ShippingAddress string          `db:"shipping_address" json:"shipping_address"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
	UpdatedAt       string          `db:"updated_at" json:"updated_at"`
}

// OrderItem is the write-once snapshot of a purchased line. Price is the
// unit price at checkout; product and variant become nil if later deleted.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID *int64          `db:"product_id" json:"product_id"`
	VariantID *int64          `db:"variant_id" json:"variant_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}
