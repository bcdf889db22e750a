package cart

import (
	"context"
	"testing"

	"github.com/desesperanza/panaderia-backend/pkg/config"
	"github.com/desesperanza/panaderia-backend/pkg/db/models"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeCartStore struct {
	carts map[string]*Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*Cart{}}
}

func (f *fakeCartStore) Load(ctx context.Context, userID string) (*Cart, error) {
	if cart, ok := f.carts[userID]; ok {
		copied := *cart
		return &copied, nil
	}
	return &Cart{}, nil
}

func (f *fakeCartStore) Save(ctx context.Context, userID string, cart *Cart) error {
	copied := *cart
	f.carts[userID] = &copied
	return nil
}

func (f *fakeCartStore) Clear(ctx context.Context, userID string) error {
	delete(f.carts, userID)
	return nil
}

type fakeProductLoader struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProductLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := f.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newCartTestService(t *testing.T, products ...*models.Product) (Service, *fakeCartStore) {
	t.Helper()

	loader := &fakeProductLoader{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		loader.products[p.ID] = p
	}
	store := newFakeCartStore()
	svc, err := NewService(store, loader, config.CartConfig{ShippingFeeCents: 5000})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, store
}

func TestServiceAddSnapshotsCatalogPrice(t *testing.T) {
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Baguette",
		PriceCents: 350,
		Stock:      10,
		IsActive:   true,
	}
	svc, _ := newCartTestService(t, product)
	userID := uuid.New()
	ctx := context.Background()

	view, err := svc.Add(ctx, userID, product.ID)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Items))
	}
	if view.Items[0].UnitPriceCents != 350 || view.Items[0].Name != "Baguette" {
		t.Fatalf("expected catalog snapshot in cart line, got %+v", view.Items[0])
	}

	// Catalog price changes do not rewrite existing lines.
	product.PriceCents = 999
	view, err = svc.Add(ctx, userID, product.ID)
	if err != nil {
		t.Fatalf("second Add returned error: %v", err)
	}
	if view.Items[0].Qty != 2 {
		t.Fatalf("expected merged quantity 2, got %d", view.Items[0].Qty)
	}
	if view.Items[0].UnitPriceCents != 350 {
		t.Fatalf("expected original snapshot price, got %d", view.Items[0].UnitPriceCents)
	}
}

func TestServiceAddUnknownOrInactiveProduct(t *testing.T) {
	inactive := &models.Product{
		ID:         uuid.New(),
		Name:       "Croissant",
		PriceCents: 250,
		IsActive:   false,
	}
	svc, _ := newCartTestService(t, inactive)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = svc.Add(ctx, userID, inactive.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for inactive product, got %v", err)
	}
}

func TestServiceTotalsIncludeShippingOnlyWhenNonEmpty(t *testing.T) {
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Baguette",
		PriceCents: 350,
		IsActive:   true,
	}
	svc, _ := newCartTestService(t, product)
	userID := uuid.New()
	ctx := context.Background()

	view, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if view.Totals.TotalCents != 0 {
		t.Fatalf("empty cart should total 0, got %d", view.Totals.TotalCents)
	}

	if _, err := svc.Add(ctx, userID, product.ID); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	view, err = svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if view.Totals.SubtotalCents != 350 || view.Totals.ShippingCents != 5000 || view.Totals.TotalCents != 5350 {
		t.Fatalf("unexpected totals: %+v", view.Totals)
	}
}

func TestServiceRemoveAndClear(t *testing.T) {
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Baguette",
		PriceCents: 350,
		IsActive:   true,
	}
	svc, store := newCartTestService(t, product)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.Add(ctx, userID, product.ID); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	view, err := svc.Remove(ctx, userID, 0)
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart after Remove, got %d items", len(view.Items))
	}

	if _, err := svc.Add(ctx, userID, product.ID); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := svc.Clear(ctx, userID); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, ok := store.carts[userID.String()]; ok {
		t.Fatal("expected session cart to be dropped")
	}
}
