package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates order lifecycle states.
type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderPaid     OrderStatus = "paid"
	OrderFailed   OrderStatus = "failed"
	OrderRefunded OrderStatus = "refunded"
)

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderPaid || s == OrderFailed || s == OrderRefunded
}

// ValidateOrderTransition checks a status change. Only pending orders move,
// and only to a terminal state.
func ValidateOrderTransition(from, to OrderStatus) error {
	switch to {
	case OrderPaid, OrderFailed, OrderRefunded:
	default:
		return ErrValidation("invalid order status: " + string(to))
	}
	if from.Terminal() {
		return ErrConflict("order is already " + string(from))
	}
	return nil
}

// Order represents a package purchase. Rows are immutable after reaching a
// terminal status.
type Order struct {
	ID               uuid.UUID   `json:"id"`
	PartnerID        uuid.UUID   `json:"partner_id"`
	PackageID        uuid.UUID   `json:"package_id"`
	PackageName      string      `json:"package_name,omitempty"`
	Amount           int64       `json:"amount"`
	SalesUnits       int64       `json:"sales_units"`
	Status           OrderStatus `json:"status"`
	PaymentMethod    string      `json:"payment_method"`
	PaymentReference *string     `json:"payment_reference,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	PaidAt           *time.Time  `json:"paid_at,omitempty"`
}

// Package is a purchasable package. Price is minor currency units.
type Package struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
