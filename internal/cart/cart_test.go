package cart

import (
	"testing"

	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/google/uuid"
)

func TestCartAddMergesExistingLine(t *testing.T) {
	var c Cart
	baguette := uuid.New()
	concha := uuid.New()

	c.Add(baguette, "Baguette", 350)
	c.Add(concha, "Concha", 180)
	c.Add(baguette, "Baguette", 350)

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c.Items))
	}
	if c.Items[0].Qty != 2 {
		t.Fatalf("expected merged quantity 2, got %d", c.Items[0].Qty)
	}
	if c.Items[1].Qty != 1 {
		t.Fatalf("expected quantity 1, got %d", c.Items[1].Qty)
	}
}

func TestCartChangeQuantityRemovesAtZero(t *testing.T) {
	var c Cart
	c.Add(uuid.New(), "Baguette", 350)
	c.Add(uuid.New(), "Concha", 180)

	if err := c.ChangeQuantity(0, -1); err != nil {
		t.Fatalf("ChangeQuantity returned error: %v", err)
	}
	if len(c.Items) != 1 {
		t.Fatalf("expected line removal at quantity 0, got %d lines", len(c.Items))
	}
	if c.Items[0].Name != "Concha" {
		t.Fatalf("wrong line removed, remaining %q", c.Items[0].Name)
	}
}

func TestCartChangeQuantityOutOfRange(t *testing.T) {
	var c Cart
	c.Add(uuid.New(), "Baguette", 350)

	err := c.ChangeQuantity(5, 1)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for out-of-range index, got %v", err)
	}
	err = c.Remove(-1)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative index, got %v", err)
	}
}

func TestCartTotals(t *testing.T) {
	var c Cart
	first := uuid.New()
	c.Add(first, "Baguette", 1000)
	c.Add(first, "Baguette", 1000)
	c.Add(uuid.New(), "Concha", 500)

	totals := c.Totals(5000)
	if totals.SubtotalCents != 2500 {
		t.Fatalf("expected subtotal 2500, got %d", totals.SubtotalCents)
	}
	if totals.ShippingCents != 5000 {
		t.Fatalf("expected shipping 5000, got %d", totals.ShippingCents)
	}
	if totals.TotalCents != 7500 {
		t.Fatalf("expected total 7500, got %d", totals.TotalCents)
	}
	if totals.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", totals.ItemCount)
	}
}

func TestCartTotalsEmptySkipsShipping(t *testing.T) {
	var c Cart
	totals := c.Totals(5000)
	if totals.SubtotalCents != 0 || totals.ShippingCents != 0 || totals.TotalCents != 0 {
		t.Fatalf("empty cart should have zero totals, got %+v", totals)
	}

	c.Add(uuid.New(), "Baguette", 350)
	c.Clear()
	if !c.IsEmpty() {
		t.Fatal("expected cart to be empty after Clear")
	}
}
