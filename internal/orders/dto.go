package orders

import (
	"time"

	"github.com/desesperanza/panaderia-backend/pkg/enums"
	"github.com/google/uuid"
)

// OrderSummary exposes the aggregated fields returned in order lists.
type OrderSummary struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	Status        enums.OrderStatus `json:"status"`
	SubtotalCents int               `json:"subtotal_cents"`
	ShippingCents int               `json:"shipping_cents"`
	TotalCents    int               `json:"total_cents"`
	ItemCount     int               `json:"item_count"`
	CreatedAt     time.Time         `json:"created_at"`
}

// AdminOrderSummary is an order summary joined with the buyer's identity
// columns for the admin listing.
type AdminOrderSummary struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	UserFirstName string            `json:"user_first_name"`
	UserLastName  string            `json:"user_last_name"`
	UserEmail     string            `json:"user_email"`
	Status        enums.OrderStatus `json:"status"`
	SubtotalCents int               `json:"subtotal_cents"`
	ShippingCents int               `json:"shipping_cents"`
	TotalCents    int               `json:"total_cents"`
	ItemCount     int               `json:"item_count"`
	CreatedAt     time.Time         `json:"created_at"`
}

// LineItemDetail is an order line joined with the product display columns.
type LineItemDetail struct {
	ID                 uuid.UUID  `json:"id"`
	ProductID          *uuid.UUID `json:"product_id,omitempty"`
	Name               string     `json:"name"`
	Qty                int        `json:"qty"`
	UnitPriceCents     int        `json:"unit_price_cents"`
	TotalCents         int        `json:"total_cents"`
	ProductDescription *string    `json:"product_description,omitempty"`
	ProductImageURL    *string    `json:"product_image_url,omitempty"`
}

// OrderDetail is the full order shape returned by the detail endpoint.
type OrderDetail struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	Status        enums.OrderStatus `json:"status"`
	SubtotalCents int               `json:"subtotal_cents"`
	ShippingCents int               `json:"shipping_cents"`
	TotalCents    int               `json:"total_cents"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []LineItemDetail  `json:"items"`
}

// UpdateStatusRequest carries the target status for an order transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
