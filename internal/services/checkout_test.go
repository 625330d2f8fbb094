package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/novawear/internal/apperr"
	"github.com/example/novawear/internal/models"
)

type fakeOrderRepo struct {
	orders    []*models.Order
	createErr error
}

func (f *fakeOrderRepo) CreateFromCart(ctx context.Context, order *models.Order, cart *models.Cart) error {
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = uuid.New()
	f.orders = append(f.orders, order)
	cart.Version++
	cart.Items = []models.CartItem{}
	return nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			out = append(out, *f.orders[i])
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	for _, order := range f.orders {
		if order.ID == id && order.UserID == userID {
			return order, nil
		}
	}
	return nil, apperr.NotFound("order not found")
}

func seedCart(t *testing.T, carts *fakeCartRepo, products *fakeProductRepo, userID uuid.UUID, lines map[*models.Product]int) {
	t.Helper()
	svc := NewCartService(carts, products)
	for product, quantity := range lines {
		_, err := svc.AddItem(context.Background(), userID, product.ID, quantity)
		require.NoError(t, err)
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots items, totals once, and empties the cart", func(t *testing.T) {
		userID := uuid.New()
		shirt := &models.Product{Name: "shirt", Price: 10}
		hat := &models.Product{Name: "hat", Price: 5}
		products := newFakeProductRepo(shirt, hat)
		carts := newFakeCartRepo()
		orders := &fakeOrderRepo{}

		seedCart(t, carts, products, userID, map[*models.Product]int{shirt: 2, hat: 3})

		svc := NewCheckoutService(carts, orders)
		order, err := svc.Checkout(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, userID, order.UserID)
		assert.Equal(t, models.OrderStatusCreated, order.Status)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, 35.00, order.Total)

		cart, err := carts.GetOrCreate(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("empty cart produces no order", func(t *testing.T) {
		carts := newFakeCartRepo()
		orders := &fakeOrderRepo{}
		svc := NewCheckoutService(carts, orders)

		_, err := svc.Checkout(ctx, uuid.New())
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Empty(t, orders.orders)
	})

	t.Run("store conflict aborts without clearing the cart", func(t *testing.T) {
		userID := uuid.New()
		shirt := &models.Product{Name: "shirt", Price: 10}
		products := newFakeProductRepo(shirt)
		carts := newFakeCartRepo()
		orders := &fakeOrderRepo{createErr: apperr.Conflict("cart was modified concurrently")}

		seedCart(t, carts, products, userID, map[*models.Product]int{shirt: 1})

		svc := NewCheckoutService(carts, orders)
		_, err := svc.Checkout(ctx, userID)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		cart, err := carts.GetOrCreate(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
	})
}

func TestOrderReads(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	stranger := uuid.New()

	shirt := &models.Product{Name: "shirt", Price: 12.50}
	products := newFakeProductRepo(shirt)
	carts := newFakeCartRepo()
	orders := &fakeOrderRepo{}
	svc := NewCheckoutService(carts, orders)

	seedCart(t, carts, products, userID, map[*models.Product]int{shirt: 2})
	placed, err := svc.Checkout(ctx, userID)
	require.NoError(t, err)

	t.Run("list returns own orders", func(t *testing.T) {
		list, err := svc.ListOrders(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, placed.ID, list[0].ID)

		list, err = svc.ListOrders(ctx, stranger)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("get is owner-gated", func(t *testing.T) {
		order, err := svc.GetOrder(ctx, placed.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, 25.00, order.Total)

		_, err = svc.GetOrder(ctx, placed.ID, stranger)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
