package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desesperanza/panaderia-backend/pkg/db"
	"github.com/desesperanza/panaderia-backend/pkg/enums"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/desesperanza/panaderia-backend/pkg/outbox"
	"github.com/desesperanza/panaderia-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes the order read and transition operations.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderSummary, error)
	ListAll(ctx context.Context) ([]AdminOrderSummary, error)
	GetDetail(ctx context.Context, requesterID uuid.UUID, requesterRole enums.UserRole, orderID uuid.UUID) (*OrderDetail, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, status string) (*OrderDetail, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	events eventEmitter
}

// ServiceParams bundles the dependencies for the orders service.
type ServiceParams struct {
	Repo   Repository
	DB     *db.Client
	Outbox *outbox.Service
}

// NewService wires the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service is required")
	}
	return &service{
		repo:   params.Repo,
		tx:     params.DB,
		events: params.Outbox,
	}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderSummary, error) {
	summaries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return summaries, nil
}

func (s *service) ListAll(ctx context.Context) ([]AdminOrderSummary, error) {
	summaries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list all orders")
	}
	return summaries, nil
}

// GetDetail loads the order with its lines. Customers may only read their own
// orders; admins may read any.
func (s *service) GetDetail(ctx context.Context, requesterID uuid.UUID, requesterRole enums.UserRole, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	if requesterRole != enums.RoleAdmin && order.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}

	items, err := s.repo.FindOrderLineItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order lines")
	}

	return &OrderDetail{
		ID:            order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		SubtotalCents: order.SubtotalCents,
		ShippingCents: order.ShippingCents,
		TotalCents:    order.TotalCents,
		CreatedAt:     order.CreatedAt,
		Items:         items,
	}, nil
}

// UpdateStatus transitions an order and queues the status-change event in the
// same transaction.
func (s *service) UpdateStatus(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, status string) (*OrderDetail, error) {
	target, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	if order.Status == target {
		return s.GetDetail(ctx, order.UserID, enums.RoleAdmin, orderID)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateStatus(ctx, orderID, target); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Actor:         &outbox.ActorRef{UserID: actorID, Role: string(enums.RoleAdmin)},
			Data: payloads.OrderStatusChangedEvent{
				OrderID:   orderID,
				UserID:    order.UserID,
				OldStatus: order.Status,
				NewStatus: target,
				ChangedAt: time.Now().UTC(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetDetail(ctx, order.UserID, enums.RoleAdmin, orderID)
}
