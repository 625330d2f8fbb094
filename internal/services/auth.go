// Package services contains the business logic between the HTTP handlers and
// the repositories: credential and session management, cart aggregation, and
// the cart-to-order transition.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/novawear/internal/apperr"
	"github.com/example/novawear/internal/config"
	"github.com/example/novawear/internal/models"
	"github.com/example/novawear/internal/repository"
	"github.com/example/novawear/internal/utils"
)

// resetTokenTTL is the absolute lifetime of a password-reset secret.
const resetTokenTTL = time.Hour

// minPasswordLength applies to registration and reset alike.
const minPasswordLength = 6

// AuthService orchestrates register, login, me, and the password-reset state
// machine over the user repository, the password hasher, and the mailer.
type AuthService struct {
	users       repository.UserRepository
	mailer      Mailer
	jwtSecret   string
	tokenTTL    time.Duration
	adminSecret string
	clientURL   string
}

// NewAuthService constructs an AuthService. The signing and admin-elevation
// secrets come from the injected config, never from process-wide state.
func NewAuthService(users repository.UserRepository, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		users:       users,
		mailer:      mailer,
		jwtSecret:   cfg.JWTSecret,
		tokenTTL:    cfg.TokenExpires,
		adminSecret: cfg.AdminSecret,
		clientURL:   strings.TrimRight(cfg.ClientURL, "/"),
	}
}

// AuthResult bundles a user with a freshly issued session token.
type AuthResult struct {
	User  *models.User
	Token string
}

// NormalizeEmail is applied before every store lookup or insert so that
// uniqueness and login are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and issues a session token. The admin role is
// granted only when the presented secret matches the configured one; an
// unconfigured secret refuses admin creation outright.
func (s *AuthService) Register(ctx context.Context, name, email, password, adminSecret string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("please provide all required fields (name, email, password)")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	role := models.RoleUser
	if adminSecret != "" {
		if s.adminSecret == "" {
			return nil, apperr.Forbidden("admin creation is not allowed")
		}
		if adminSecret != s.adminSecret {
			return nil, apperr.Forbidden("invalid admin secret")
		}
		role = models.RoleAdmin
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password produce the same generic failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("please provide email and password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Auth("invalid email or password")
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Auth("invalid email or password")
	}

	return s.issueSession(user)
}

// GetSelf resolves a session subject to a live user. A token whose user no
// longer exists is treated as an invalid session.
func (s *AuthService) GetSelf(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Auth("not authorized")
		}
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset starts the reset state machine. A nil return means
// the caller should answer with the generic "if an account exists" message;
// whether a mail went out is deliberately not distinguishable. A delivery
// failure rolls the reset fields back and does surface as an error.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return apperr.Validation("please provide an email address")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			// No account: same outward behavior as success.
			return nil
		}
		return err
	}

	rawToken, err := utils.GenerateResetToken()
	if err != nil {
		return apperr.Internal("failed to generate reset token", err)
	}

	expiry := time.Now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, utils.HashResetToken(rawToken), expiry); err != nil {
		return err
	}

	resetURL := s.clientURL + "/reset/" + rawToken
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		// Delivery failed: return to the no-reset-pending state rather than
		// leave a token the user never received.
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			return clearErr
		}
		return apperr.Internal("unable to send email", err)
	}

	return nil
}

// ConsumePasswordReset redeems a raw reset secret: one guarded store update
// checks the hash and the expiry, swaps in the new password hash, and clears
// the reset fields, so a token is usable at most once. A fresh session token
// is issued for the affected user.
func (s *AuthService) ConsumePasswordReset(ctx context.Context, rawToken, newPassword string) (*AuthResult, error) {
	if rawToken == "" || newPassword == "" {
		return nil, apperr.Validation("invalid request")
	}
	if len(newPassword) < minPasswordLength {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user, err := s.users.ConsumeResetToken(ctx, utils.HashResetToken(rawToken), hash)
	if err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

func (s *AuthService) issueSession(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(s.jwtSecret, user.ID, s.tokenTTL)
	if err != nil {
		return nil, apperr.Internal("failed to generate token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
