package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/novawear/internal/middleware"
	"github.com/example/novawear/internal/services"
)

// OrderHandler exposes checkout and the order read paths.
type OrderHandler struct {
	checkout *services.CheckoutService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(checkout *services.CheckoutService) *OrderHandler {
	return &OrderHandler{checkout: checkout}
}

// Checkout turns the user's cart into an order and empties the cart.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authorized")
	}

	order, err := h.checkout.Checkout(c.Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "order placed",
		"data":    order,
	})
}

// ListOrders returns the user's orders, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authorized")
	}

	orders, err := h.checkout.ListOrders(c.Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// GetOrder returns one of the user's orders.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authorized")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	order, err := h.checkout.GetOrder(c.Context(), orderID, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
