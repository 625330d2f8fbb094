package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/novawear/internal/middleware"
	"github.com/example/novawear/internal/services"
)

// AuthHandler exposes the credential and session endpoints.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AdminSecret string `json:"adminSecret"`
}

// Register creates a new user account and returns a session token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password, req.AdminSecret)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "user registered successfully",
		"data":    sessionResponse(result),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "login successful",
		"data":    sessionResponse(result),
	})
}

// Me returns the authenticated user's profile. The password hash and reset
// columns are excluded by the model's JSON mapping.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authorized")
	}

	profile, err := h.auth.GetSelf(c.Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword starts the reset flow. The response does not reveal
// whether the email matches an account.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "if an account exists for this email, a reset link has been sent",
	})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword redeems the raw reset token from the URL and sets the new
// password, returning a fresh session token.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.auth.ConsumePasswordReset(c.Context(), c.Params("token"), req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "password reset successful",
		"data": fiber.Map{
			"token": result.Token,
		},
	})
}

func sessionResponse(result *services.AuthResult) fiber.Map {
	return fiber.Map{
		"id":    result.User.ID,
		"name":  result.User.Name,
		"email": result.User.Email,
		"role":  result.User.Role,
		"token": result.Token,
	}
}
