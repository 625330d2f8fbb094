package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/novawear/internal/apperr"
	"github.com/example/novawear/internal/models"
)

// CartRepository persists the single live cart per user.
//
// Every mutation runs inside a transaction that first bumps the cart's
// version with a compare-and-swap on the version the caller read. A zero-row
// update means another request mutated the cart in between; the transaction
// rolls back with a conflict error and the caller retries from a fresh read.
type CartRepository interface {
	// GetOrCreate returns the user's cart with its items, creating an empty
	// cart on first access. Idempotent under concurrent first access.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)

	// SaveItem inserts or updates one cart entry under the cart's version
	// guard.
	SaveItem(ctx context.Context, cart *models.Cart, item *models.CartItem) error

	// DeleteItem removes one cart entry under the version guard. Removing
	// an absent product is not an error.
	DeleteItem(ctx context.Context, cart *models.Cart, productID uuid.UUID) error
}

type gormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository returns a Postgres-backed CartRepository.
func NewCartRepository(db *gorm.DB) CartRepository {
	return &gormCartRepository{db: db}
}

func (r *gormCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.find(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}

	fresh := &models.Cart{UserID: userID}
	if err := r.db.WithContext(ctx).Create(fresh).Error; err != nil {
		// Lost the race against a concurrent first access; the winner's
		// cart is the one to use.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.find(ctx, userID)
		}
		return nil, apperr.Internal("failed to create cart", err)
	}
	fresh.Items = []models.CartItem{}
	return fresh, nil
}

func (r *gormCartRepository) find(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart not found")
		}
		return nil, apperr.Internal("failed to load cart", err)
	}
	return &cart, nil
}

func (r *gormCartRepository) SaveItem(ctx context.Context, cart *models.Cart, item *models.CartItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpCartVersion(tx, cart); err != nil {
			return err
		}
		if err := tx.Save(item).Error; err != nil {
			return apperr.Internal("failed to save cart item", err)
		}
		return nil
	})
	if err == nil {
		cart.Version++
	}
	return err
}

func (r *gormCartRepository) DeleteItem(ctx context.Context, cart *models.Cart, productID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpCartVersion(tx, cart); err != nil {
			return err
		}
		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			Delete(&models.CartItem{}).Error; err != nil {
			return apperr.Internal("failed to delete cart item", err)
		}
		return nil
	})
	if err == nil {
		cart.Version++
	}
	return err
}

// bumpCartVersion is the per-cart write serializer: it succeeds only when
// the cart still has the version the caller read.
func bumpCartVersion(tx *gorm.DB, cart *models.Cart) error {
	res := tx.Model(&models.Cart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Update("version", cart.Version+1)
	if res.Error != nil {
		return apperr.Internal("failed to update cart", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("cart was modified concurrently")
	}
	return nil
}
