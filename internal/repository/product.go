package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/novawear/internal/apperr"
	"github.com/example/novawear/internal/models"
)

// ProductFilter narrows and pages a catalog listing.
type ProductFilter struct {
	Category string
	Brand    string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Limit    int
	Offset   int
}

// orderClause maps the public sort keys onto SQL. Unknown or empty keys fall
// back to newest first.
func orderClause(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "name_asc":
		return "name ASC"
	case "name_desc":
		return "name DESC"
	default:
		return "created_at DESC"
	}
}

// ProductRepository persists the product catalog consumed by the cart engine.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository returns a Postgres-backed ProductRepository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

func (r *gormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("failed to load product", err)
	}
	return &product, nil
}

func (r *gormProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.Search != "" {
		q := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", q, q)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to count products", err)
	}

	var products []models.Product
	if err := query.Limit(filter.Limit).Offset(filter.Offset).
		Order(orderClause(filter.Sort)).
		Find(&products).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list products", err)
	}

	return products, total, nil
}

func (r *gormProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).Model(&models.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, apperr.Internal("failed to list categories", err)
	}
	return categories, nil
}

func (r *gormProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return apperr.Internal("failed to create product", err)
	}
	return nil
}

func (r *gormProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return apperr.Internal("failed to update product", err)
	}
	return nil
}

func (r *gormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Internal("failed to delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}
