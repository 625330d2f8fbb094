package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/novawear/internal/apperr"
	"github.com/example/novawear/internal/models"
)

// OrderRepository persists immutable order records.
type OrderRepository interface {
	// CreateFromCart writes the order and empties the cart in a single
	// transaction. The cart clear is guarded by the cart version read at
	// snapshot time, so a cart mutated (or checked out) concurrently aborts
	// the whole transaction and no order is created.
	CreateFromCart(ctx context.Context, order *models.Order, cart *models.Cart) error

	// ListByUser returns the user's orders, newest first, with items.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)

	// FindForUser returns one order, gated to its owner.
	FindForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository returns a Postgres-backed OrderRepository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) CreateFromCart(ctx context.Context, order *models.Order, cart *models.Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return apperr.Internal("failed to create order", err)
		}
		if err := bumpCartVersion(tx, cart); err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return apperr.Internal("failed to clear cart", err)
		}
		return nil
	})
	if err == nil {
		cart.Version++
		cart.Items = []models.CartItem{}
	}
	return err
}

func (r *gormOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Internal("failed to list orders", err)
	}
	return orders, nil
}

func (r *gormOrderRepository) FindForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("failed to load order", err)
	}
	return &order, nil
}
