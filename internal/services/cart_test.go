package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/novawear/internal/apperr"
	"github.com/example/novawear/internal/models"
	"github.com/example/novawear/internal/repository"
)

// --- fakes shared by the cart and checkout tests ---

type fakeProductRepo struct {
	products map[uuid.UUID]*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("product not found")
}

func (f *fakeProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) Categories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, p *models.Product) error {
	p.ID = uuid.New()
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *models.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.products[id]; !ok {
		return apperr.NotFound("product not found")
	}
	delete(f.products, id)
	return nil
}

type fakeCartRepo struct {
	carts map[uuid.UUID]*models.Cart // keyed by user ID
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[uuid.UUID]*models.Cart{}}
}

func (f *fakeCartRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if cart, ok := f.carts[userID]; ok {
		return cart, nil
	}
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}
	cart.ID = uuid.New()
	f.carts[userID] = cart
	return cart, nil
}

func (f *fakeCartRepo) SaveItem(ctx context.Context, cart *models.Cart, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	// The fake hands out the stored cart itself, so the service's in-place
	// mutation is already visible; only the version needs to move.
	cart.Version++
	return nil
}

func (f *fakeCartRepo) DeleteItem(ctx context.Context, cart *models.Cart, productID uuid.UUID) error {
	stored := f.carts[cart.UserID]
	kept := stored.Items[:0]
	for _, item := range stored.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	stored.Items = kept
	cart.Version++
	return nil
}

// --- tests ---

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("unknown product is rejected", func(t *testing.T) {
		svc := NewCartService(newFakeCartRepo(), newFakeProductRepo())
		_, err := svc.AddItem(ctx, userID, uuid.New(), 1)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		product := &models.Product{Name: "shirt", Price: 10}
		svc := NewCartService(newFakeCartRepo(), newFakeProductRepo(product))
		_, err := svc.AddItem(ctx, userID, product.ID, 0)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("new entry snapshots the current price", func(t *testing.T) {
		product := &models.Product{Name: "shirt", Price: 19.99}
		svc := NewCartService(newFakeCartRepo(), newFakeProductRepo(product))

		cart, err := svc.AddItem(ctx, userID, product.ID, 2)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, 19.99, cart.Items[0].PriceAtAdd)
	})

	t.Run("merge keeps the first-add price and caps the quantity", func(t *testing.T) {
		product := &models.Product{Name: "shirt", Price: 19.99}
		products := newFakeProductRepo(product)
		svc := NewCartService(newFakeCartRepo(), products)

		_, err := svc.AddItem(ctx, userID, product.ID, 5)
		require.NoError(t, err)

		// The live price changes between adds; the snapshot must not.
		product.Price = 29.99

		_, err = svc.AddItem(ctx, userID, product.ID, 4000)
		require.NoError(t, err)
		cart, err := svc.AddItem(ctx, userID, product.ID, 4000)
		require.NoError(t, err)

		require.Len(t, cart.Items, 1)
		assert.Equal(t, models.MaxItemQuantity, cart.Items[0].Quantity)
		assert.Equal(t, 19.99, cart.Items[0].PriceAtAdd)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	product := &models.Product{Name: "shirt", Price: 10}
	other := &models.Product{Name: "hat", Price: 5}
	svc := NewCartService(newFakeCartRepo(), newFakeProductRepo(product, other))

	_, err := svc.AddItem(ctx, userID, product.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, other.ID, 1)
	require.NoError(t, err)

	t.Run("product not in cart is rejected", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, userID, uuid.New(), 3)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("sets quantity with cap", func(t *testing.T) {
		cart, err := svc.UpdateItem(ctx, userID, product.ID, 100000)
		require.NoError(t, err)
		assert.Equal(t, models.MaxItemQuantity, cart.Item(product.ID).Quantity)
	})

	t.Run("zero quantity removes exactly one entry", func(t *testing.T) {
		cart, err := svc.UpdateItem(ctx, userID, product.ID, 0)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Nil(t, cart.Item(product.ID))
		assert.NotNil(t, cart.Item(other.ID))
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	product := &models.Product{Name: "shirt", Price: 10}
	svc := NewCartService(newFakeCartRepo(), newFakeProductRepo(product))

	_, err := svc.AddItem(ctx, userID, product.ID, 1)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, userID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Removing again is idempotent.
	cart, err = svc.RemoveItem(ctx, userID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestGetCartIsLazy(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(newFakeCartRepo(), newFakeProductRepo())

	cart, err := svc.GetCart(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
