package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/novawear/internal/apperr"
	"github.com/example/novawear/internal/models"
	"github.com/example/novawear/internal/repository"
)

// CheckoutService converts a cart into an immutable order and exposes the
// order read paths.
type CheckoutService struct {
	carts  repository.CartRepository
	orders repository.OrderRepository
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(carts repository.CartRepository, orders repository.OrderRepository) *CheckoutService {
	return &CheckoutService{carts: carts, orders: orders}
}

// Checkout snapshots the cart's entries into order lines, computes the total
// once, persists the order, and empties the cart. Order creation and cart
// clearing run in one store transaction guarded by the cart version, so a
// cart mutated concurrently produces no order at all.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(cart.Items) == 0 {
		return nil, apperr.Validation("cart is empty")
	}

	order := &models.Order{
		UserID: userID,
		Status: models.OrderStatusCreated,
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.PriceAtAdd,
		})
		order.Total += float64(item.Quantity) * item.PriceAtAdd
	}

	if err := s.orders.CreateFromCart(ctx, order, cart); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *CheckoutService) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// GetOrder returns one of the user's orders.
func (s *CheckoutService) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	return s.orders.FindForUser(ctx, orderID, userID)
}
