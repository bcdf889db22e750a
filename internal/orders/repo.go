package orders

import (
	"context"

	"github.com/desesperanza/panaderia-backend/pkg/db/models"
	"github.com/desesperanza/panaderia-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderLineItems(ctx context.Context, items []models.OrderLineItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderLineItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]LineItemDetail, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderSummary, error)
	ListAll(ctx context.Context) ([]AdminOrderSummary, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderLineItems(ctx context.Context, items []models.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindOrderLineItemsByOrder loads the order's lines joined with the product
// display columns. Deleted products leave the snapshot fields intact and the
// joined columns null.
func (r *repository) FindOrderLineItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]LineItemDetail, error) {
	var items []LineItemDetail
	err := r.db.WithContext(ctx).
		Model(&models.OrderLineItem{}).
		Select(`order_line_items.id,
			order_line_items.product_id,
			order_line_items.name,
			order_line_items.qty,
			order_line_items.unit_price_cents,
			order_line_items.total_cents,
			products.description AS product_description,
			products.image_url AS product_image_url`).
		Joins("LEFT JOIN products ON products.id = order_line_items.product_id").
		Where("order_line_items.order_id = ?", orderID).
		Order("order_line_items.created_at ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderSummary, error) {
	var summaries []OrderSummary
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`orders.id,
			orders.user_id,
			orders.status,
			orders.subtotal_cents,
			orders.shipping_cents,
			orders.total_cents,
			orders.created_at,
			COUNT(order_line_items.id) AS item_count`).
		Joins("LEFT JOIN order_line_items ON order_line_items.order_id = orders.id").
		Where("orders.user_id = ?", userID).
		Group("orders.id, orders.user_id, orders.status, orders.subtotal_cents, orders.shipping_cents, orders.total_cents, orders.created_at").
		Order("orders.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// ListAll returns every order newest first, joined with the buyer's name and
// email for the admin listing.
func (r *repository) ListAll(ctx context.Context) ([]AdminOrderSummary, error) {
	var summaries []AdminOrderSummary
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`orders.id,
			orders.user_id,
			users.first_name AS user_first_name,
			users.last_name AS user_last_name,
			users.email AS user_email,
			orders.status,
			orders.subtotal_cents,
			orders.shipping_cents,
			orders.total_cents,
			orders.created_at,
			COUNT(order_line_items.id) AS item_count`).
		Joins("JOIN users ON users.id = orders.user_id").
		Joins("LEFT JOIN order_line_items ON order_line_items.order_id = orders.id").
		Group("orders.id, orders.user_id, users.first_name, users.last_name, users.email, orders.status, orders.subtotal_cents, orders.shipping_cents, orders.total_cents, orders.created_at").
		Order("orders.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
