package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/novawear/internal/models"
	"github.com/example/novawear/internal/repository"
	"github.com/example/novawear/internal/utils"
)

// ProductHandler manages the product catalog the cart engine consults.
// Reads are public; mutations are admin-only (enforced in the routes).
type ProductHandler struct {
	products repository.ProductRepository
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(products repository.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts returns paginated products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   strings.TrimSpace(c.Query("search")),
		Sort:     c.Query("sort"),
		Limit:    pg.Limit,
		Offset:   pg.Offset,
	}

	if v := c.Query("min_price"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &val
		}
	}
	if v := c.Query("max_price"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &val
		}
	}

	products, total, err := h.products.List(c.Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"page":  pg.Page,
			"limit": pg.Limit,
			"total": total,
		},
	})
}

// ListCategories returns the distinct categories present in the catalog.
func (h *ProductHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.products.Categories(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(categories),
		"data":    categories,
	})
}

// GetProduct returns a single product by ID.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.products.FindByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// productRequest uses pointers throughout so partial updates can tell an
// omitted field from a deliberate zero (price 0, empty brand, stock 0).
type productRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Category      *string  `json:"category"`
	Brand         *string  `json:"brand"`
	Image         *string  `json:"image"`
	InStock       *bool    `json:"in_stock"`
	StockQuantity *int     `json:"stock_quantity"`
}

func (r *productRequest) apply(product *models.Product) error {
	if r.Name != nil {
		product.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		product.Description = strings.TrimSpace(*r.Description)
	}
	if r.Price != nil {
		if *r.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price cannot be negative")
		}
		product.Price = *r.Price
	}
	if r.Category != nil {
		product.Category = strings.TrimSpace(*r.Category)
	}
	if r.Brand != nil {
		product.Brand = strings.TrimSpace(*r.Brand)
	}
	if r.Image != nil {
		product.Image = *r.Image
	}
	if r.InStock != nil {
		product.InStock = *r.InStock
	}
	if r.StockQuantity != nil {
		if *r.StockQuantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock quantity cannot be negative")
		}
		product.StockQuantity = *r.StockQuantity
	}
	return nil
}

// CreateProduct adds a catalog entry.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product := models.Product{InStock: true}
	if err := req.apply(&product); err != nil {
		return err
	}
	if product.Name == "" || product.Description == "" || product.Category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name, description and category are required")
	}

	if err := h.products.Create(c.Context(), &product); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct modifies a catalog entry. Omitted fields stay as they are.
// Cart entries keep their captured PriceAtAdd regardless of price changes
// here.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.products.FindByID(c.Context(), id)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.apply(product); err != nil {
		return err
	}

	if err := h.products.Update(c.Context(), product); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a catalog entry.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.products.Delete(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}
