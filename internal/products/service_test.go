package product

import (
	"context"
	"testing"

	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/google/uuid"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()

	repo := NewRepository(openTestDB(t))
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, repo
}

func TestServiceGetNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error for missing product")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected *pkgerrors.Error, got %T", err)
	}
	if appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %s", appErr.Code())
	}
}

func TestServiceCreateAndUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{
		Name:       "  Baguette ",
		Category:   "bread",
		PriceCents: 350,
		Stock:      10,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Name != "Baguette" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if !created.IsActive {
		t.Fatal("new products should be active")
	}

	newPrice := 400
	inactive := false
	updated, err := svc.Update(ctx, created.ID, UpdateProductInput{
		PriceCents: &newPrice,
		IsActive:   &inactive,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.PriceCents != 400 {
		t.Fatalf("expected price 400, got %d", updated.PriceCents)
	}
	if updated.IsActive {
		t.Fatal("expected product to be deactivated")
	}
	if updated.Name != "Baguette" {
		t.Fatalf("untouched fields should survive, got name %q", updated.Name)
	}
}

func TestServiceListByCategoryRequiresCategory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListByCategory(context.Background(), "  ")
	if err == nil {
		t.Fatal("expected validation error for blank category")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected CodeValidation, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{
		Name:       "Concha",
		Category:   "sweet",
		PriceCents: 180,
		Stock:      5,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	_, err = svc.Get(ctx, created.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound after delete, got %v", err)
	}
}
