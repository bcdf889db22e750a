package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/desesperanza/panaderia-backend/pkg/config"
	"github.com/desesperanza/panaderia-backend/pkg/db/models"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type cartStore interface {
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, cart *Cart) error
	Clear(ctx context.Context, userID string) error
}

// View is the cart plus its derived totals, the shape returned to clients.
type View struct {
	Items  []Item `json:"items"`
	Totals Totals `json:"totals"`
}

// Service exposes the session cart operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*View, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (*View, error)
	ChangeQuantity(ctx context.Context, userID uuid.UUID, index, delta int) (*View, error)
	Remove(ctx context.Context, userID uuid.UUID, index int) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	store         cartStore
	products      productLoader
	shippingCents int
}

// NewService wires the cart service.
func NewService(store cartStore, products productLoader, cfg config.CartConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader is required")
	}
	return &service{
		store:         store,
		products:      products,
		shippingCents: cfg.ShippingFeeCents,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.store.Load(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

// Add snapshots the product's current name and price into the cart. Price
// changes after this point do not affect the cart line; checkout reprices
// from the catalog anyway.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*View, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	cart, err := s.store.Load(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	cart.Add(product.ID, product.Name, product.PriceCents)
	if err := s.store.Save(ctx, userID.String(), cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) ChangeQuantity(ctx context.Context, userID uuid.UUID, index, delta int) (*View, error) {
	cart, err := s.store.Load(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if err := cart.ChangeQuantity(index, delta); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, userID.String(), cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) Remove(ctx context.Context, userID uuid.UUID, index int) (*View, error) {
	cart, err := s.store.Load(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if err := cart.Remove(index); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, userID.String(), cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Clear(ctx, userID.String())
}

func (s *service) view(cart *Cart) *View {
	items := cart.Items
	if items == nil {
		items = []Item{}
	}
	return &View{
		Items:  items,
		Totals: cart.Totals(s.shippingCents),
	}
}
