package orders

import (
	"context"
	"testing"

	"github.com/desesperanza/panaderia-backend/pkg/db"
	"github.com/desesperanza/panaderia-backend/pkg/db/models"
	"github.com/desesperanza/panaderia-backend/pkg/enums"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/desesperanza/panaderia-backend/pkg/logger"
	"github.com/desesperanza/panaderia-backend/pkg/outbox"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func newOrdersTestService(t *testing.T) (Service, Repository, *gorm.DB) {
	t.Helper()

	conn := openTestDB(t)
	repo := NewRepository(conn)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel})
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		DB:     db.NewWithConn(conn),
		Outbox: outbox.NewService(outbox.NewRepository(conn), logg),
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, repo, conn
}

func TestServiceGetDetailOwnership(t *testing.T) {
	svc, repo, _ := newOrdersTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	order := mustCreateOrder(t, repo, owner, 5350,
		models.OrderLineItem{Name: "Baguette", Qty: 1, UnitPriceCents: 350, TotalCents: 350},
	)

	detail, err := svc.GetDetail(ctx, owner, enums.RoleCustomer, order.ID)
	if err != nil {
		t.Fatalf("GetDetail returned error: %v", err)
	}
	if len(detail.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(detail.Items))
	}

	_, err = svc.GetDetail(ctx, uuid.New(), enums.RoleCustomer, order.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for another user's order, got %v", err)
	}

	if _, err := svc.GetDetail(ctx, uuid.New(), enums.RoleAdmin, order.ID); err != nil {
		t.Fatalf("admin should read any order, got %v", err)
	}
}

func TestServiceGetDetailNotFound(t *testing.T) {
	svc, _, _ := newOrdersTestService(t)

	_, err := svc.GetDetail(context.Background(), uuid.New(), enums.RoleAdmin, uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdateStatusEmitsEvent(t *testing.T) {
	svc, repo, conn := newOrdersTestService(t)
	ctx := context.Background()
	owner := uuid.New()
	admin := uuid.New()

	order := mustCreateOrder(t, repo, owner, 5350)

	detail, err := svc.UpdateStatus(ctx, admin, order.ID, "shipped")
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if detail.Status != enums.OrderStatusShipped {
		t.Fatalf("expected shipped, got %q", detail.Status)
	}

	var events []models.OutboxEvent
	if err := conn.Where("event_type = ?", enums.EventOrderStatusChanged).Find(&events).Error; err != nil {
		t.Fatalf("failed to list outbox events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 status-change event, got %d", len(events))
	}
	if events[0].AggregateID != order.ID {
		t.Fatal("event should reference the order")
	}
}

func TestServiceUpdateStatusSameStatusSkipsEvent(t *testing.T) {
	svc, repo, conn := newOrdersTestService(t)
	ctx := context.Background()

	order := mustCreateOrder(t, repo, uuid.New(), 5350)

	if _, err := svc.UpdateStatus(ctx, uuid.New(), order.ID, "pending"); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	var count int64
	if err := conn.Model(&models.OutboxEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count outbox events: %v", err)
	}
	if count != 0 {
		t.Fatalf("no event expected for a no-op transition, got %d", count)
	}
}

func TestServiceUpdateStatusInvalidValue(t *testing.T) {
	svc, repo, _ := newOrdersTestService(t)

	order := mustCreateOrder(t, repo, uuid.New(), 5350)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), order.ID, "teleported")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
