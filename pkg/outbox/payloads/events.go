package payloads

import (
	"time"

	"github.com/desesperanza/panaderia-backend/pkg/enums"
	"github.com/google/uuid"
)

// OrderLineItemSnapshot captures the per-product split inside an order event.
type OrderLineItemSnapshot struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Qty            int       `json:"qty"`
	UnitPriceCents int       `json:"unit_price_cents"`
}

// OrderCreatedEvent signals a successful checkout.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID               `json:"order_id"`
	UserID        uuid.UUID               `json:"user_id"`
	SubtotalCents int                     `json:"subtotal_cents"`
	ShippingCents int                     `json:"shipping_cents"`
	TotalCents    int                     `json:"total_cents"`
	Items         []OrderLineItemSnapshot `json:"items"`
}

// OrderStatusChangedEvent is emitted when an admin moves an order through its lifecycle.
type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID         `json:"order_id"`
	UserID    uuid.UUID         `json:"user_id"`
	OldStatus enums.OrderStatus `json:"old_status"`
	NewStatus enums.OrderStatus `json:"new_status"`
	ChangedAt time.Time         `json:"changed_at"`
}

// UserRegisteredEvent is emitted when a new account is created.
type UserRegisteredEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}
