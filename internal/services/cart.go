package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/novawear/internal/apperr"
	"github.com/example/novawear/internal/models"
	"github.com/example/novawear/internal/repository"
)

// CartService owns per-user cart mutation: add with merge semantics, update
// with remove-on-zero, idempotent remove, and the price snapshot taken when
// an entry first enters the cart.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// NewCartService constructs a CartService.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.carts.GetOrCreate(ctx, userID)
}

// AddItem puts a product into the cart. An entry that already exists merges
// quantities, saturating at MaxItemQuantity, and keeps the price captured on
// the first add; a new entry snapshots the product's current price.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperr.Validation("quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing := cart.Item(productID); existing != nil {
		existing.Quantity = capQuantity(existing.Quantity + quantity)
		if err := s.carts.SaveItem(ctx, cart, existing); err != nil {
			return nil, err
		}
		return cart, nil
	}

	item := models.CartItem{
		CartID:     cart.ID,
		ProductID:  productID,
		Quantity:   capQuantity(quantity),
		PriceAtAdd: product.Price,
	}
	if err := s.carts.SaveItem(ctx, cart, &item); err != nil {
		return nil, err
	}
	cart.Items = append(cart.Items, item)
	return cart, nil
}

// UpdateItem sets the quantity of an entry already in the cart. Non-positive
// quantities remove the entry; a zero quantity is never persisted.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing := cart.Item(productID)
	if existing == nil {
		return nil, apperr.NotFound("item not in cart")
	}

	if quantity <= 0 {
		return s.removeEntry(ctx, cart, productID)
	}

	existing.Quantity = capQuantity(quantity)
	if err := s.carts.SaveItem(ctx, cart, existing); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes an entry if present. Removing an absent product is not
// an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.removeEntry(ctx, cart, productID)
}

func (s *CartService) removeEntry(ctx context.Context, cart *models.Cart, productID uuid.UUID) (*models.Cart, error) {
	if err := s.carts.DeleteItem(ctx, cart, productID); err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	return cart, nil
}

func capQuantity(quantity int) int {
	if quantity > models.MaxItemQuantity {
		return models.MaxItemQuantity
	}
	return quantity
}
