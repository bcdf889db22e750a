package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/desesperanza/panaderia-backend/internal/cart"
	"github.com/desesperanza/panaderia-backend/internal/orders"
	product "github.com/desesperanza/panaderia-backend/internal/products"
	"github.com/desesperanza/panaderia-backend/pkg/config"
	"github.com/desesperanza/panaderia-backend/pkg/db"
	"github.com/desesperanza/panaderia-backend/pkg/db/models"
	"github.com/desesperanza/panaderia-backend/pkg/enums"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/desesperanza/panaderia-backend/pkg/logger"
	"github.com/desesperanza/panaderia-backend/pkg/outbox"
	"github.com/desesperanza/panaderia-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cartSession interface {
	Load(ctx context.Context, userID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// Result is returned to the client after a successful checkout.
type Result struct {
	OrderID       uuid.UUID         `json:"order_id"`
	Status        enums.OrderStatus `json:"status"`
	SubtotalCents int               `json:"subtotal_cents"`
	ShippingCents int               `json:"shipping_cents"`
	TotalCents    int               `json:"total_cents"`
}

// ItemRequest is a checkout line posted directly by the client instead of
// read from the session cart. Prices always come from the catalog.
type ItemRequest struct {
	ProductID uuid.UUID
	Qty       int
}

// Service converts a session cart into a durable order.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID) (*Result, error)
	ExecuteItems(ctx context.Context, userID uuid.UUID, items []ItemRequest) (*Result, error)
}

type service struct {
	db            *db.Client
	carts         cartSession
	products      *product.Repository
	orders        orders.Repository
	events        *outbox.Service
	logg          *logger.Logger
	shippingCents int
}

// ServiceParams bundles the checkout dependencies.
type ServiceParams struct {
	DB          *db.Client
	CartStore   cartSession
	ProductRepo *product.Repository
	OrderRepo   orders.Repository
	Outbox      *outbox.Service
	Logger      *logger.Logger
	CartConfig  config.CartConfig
}

// NewService wires the checkout processor.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.CartStore == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		db:            params.DB,
		carts:         params.CartStore,
		products:      params.ProductRepo,
		orders:        params.OrderRepo,
		events:        params.Outbox,
		logg:          params.Logger,
		shippingCents: params.CartConfig.ShippingFeeCents,
	}, nil
}

// Execute runs the whole checkout as one transaction: reprice every line from
// the catalog, insert the order and its lines, and decrement stock with a
// conditional update so concurrent checkouts cannot oversell. The session cart
// is cleared only after the transaction commits; any failure leaves it intact
// for retry.
func (s *service) Execute(ctx context.Context, userID uuid.UUID) (*Result, error) {
	snapshot, err := s.carts.Load(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if snapshot.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	result, err := s.placeOrder(ctx, userID, snapshot.Items)
	if err != nil {
		return nil, err
	}

	// The cart survives any failure above. The order is durable once the
	// transaction commits, so a failed clear leaves a stale cart, not a
	// failed checkout.
	if err := s.carts.Clear(ctx, userID.String()); err != nil {
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{"order_id": result.OrderID}),
			"failed to clear cart session after checkout", err)
	}
	return result, nil
}

// ExecuteItems places an order from explicitly posted lines. The session cart
// is not touched; the legacy checkout contract keeps the cart client-side.
func (s *service) ExecuteItems(ctx context.Context, userID uuid.UUID, items []ItemRequest) (*Result, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	lines := make([]cart.Item, 0, len(items))
	for _, item := range items {
		if item.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		lines = append(lines, cart.Item{ProductID: item.ProductID, Qty: item.Qty})
	}
	return s.placeOrder(ctx, userID, lines)
}

func (s *service) placeOrder(ctx context.Context, userID uuid.UUID, items []cart.Item) (*Result, error) {
	var result *Result
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.products.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		var subtotal int
		lines := make([]models.OrderLineItem, 0, len(items))
		eventItems := make([]payloads.OrderLineItemSnapshot, 0, len(items))

		for _, item := range items {
			row, err := productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product no longer exists").
						WithDetails(map[string]any{"product_id": item.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
			}
			if !row.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "product is not available").
					WithDetails(map[string]any{"product_id": row.ID, "name": row.Name})
			}

			ok, err := productRepo.DecrementStock(ctx, row.ID, item.Qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
					WithDetails(map[string]any{
						"product_id": row.ID,
						"name":       row.Name,
						"requested":  item.Qty,
						"available":  row.Stock,
					})
			}

			lineTotal := row.PriceCents * item.Qty
			subtotal += lineTotal
			productID := row.ID
			lines = append(lines, models.OrderLineItem{
				ProductID:      &productID,
				Name:           row.Name,
				Qty:            item.Qty,
				UnitPriceCents: row.PriceCents,
				TotalCents:     lineTotal,
			})
			eventItems = append(eventItems, payloads.OrderLineItemSnapshot{
				ProductID:      row.ID,
				Name:           row.Name,
				Qty:            item.Qty,
				UnitPriceCents: row.PriceCents,
			})
		}

		order, err := orderRepo.CreateOrder(ctx, &models.Order{
			UserID:        userID,
			Status:        enums.OrderStatusPending,
			SubtotalCents: subtotal,
			ShippingCents: s.shippingCents,
			TotalCents:    subtotal + s.shippingCents,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order")
		}

		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := orderRepo.CreateOrderLineItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order lines")
		}

		if err := s.events.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: payloads.OrderCreatedEvent{
				OrderID:       order.ID,
				UserID:        userID,
				SubtotalCents: order.SubtotalCents,
				ShippingCents: order.ShippingCents,
				TotalCents:    order.TotalCents,
				Items:         eventItems,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue order event")
		}

		result = &Result{
			OrderID:       order.ID,
			Status:        order.Status,
			SubtotalCents: order.SubtotalCents,
			ShippingCents: order.ShippingCents,
			TotalCents:    order.TotalCents,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
