package cart

import (
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/google/uuid"
)

// Item is a single desired purchase inside a session cart.
type Item struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Qty            int       `json:"qty"`
}

// Cart is the ordered list of items attached to a client session. It is a
// plain value; persistence happens through the session store.
type Cart struct {
	Items []Item `json:"items"`
}

// Totals holds the derived amounts for a cart snapshot.
type Totals struct {
	SubtotalCents int `json:"subtotal_cents"`
	ShippingCents int `json:"shipping_cents"`
	TotalCents    int `json:"total_cents"`
	ItemCount     int `json:"item_count"`
}

// Add puts one unit of the product into the cart. An existing line for the
// same product gains a unit instead of a second line.
func (c *Cart) Add(productID uuid.UUID, name string, unitPriceCents int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Qty++
			return
		}
	}
	c.Items = append(c.Items, Item{
		ProductID:      productID,
		Name:           name,
		UnitPriceCents: unitPriceCents,
		Qty:            1,
	})
}

// ChangeQuantity adjusts the quantity at index by delta. A resulting quantity
// of zero or less removes the line.
func (c *Cart) ChangeQuantity(index, delta int) error {
	if index < 0 || index >= len(c.Items) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item index out of range")
	}
	c.Items[index].Qty += delta
	if c.Items[index].Qty <= 0 {
		return c.Remove(index)
	}
	return nil
}

// Remove drops the line at index.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.Items) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item index out of range")
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return nil
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Totals derives the amounts for the cart. The shipping fee applies only when
// the cart has a positive subtotal.
func (c *Cart) Totals(shippingFeeCents int) Totals {
	var t Totals
	for _, item := range c.Items {
		t.SubtotalCents += item.UnitPriceCents * item.Qty
		t.ItemCount += item.Qty
	}
	if t.SubtotalCents > 0 {
		t.ShippingCents = shippingFeeCents
	}
	t.TotalCents = t.SubtotalCents + t.ShippingCents
	return t
}
