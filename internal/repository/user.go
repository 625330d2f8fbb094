// Package repository holds the narrow store interfaces behind the services
// and their GORM implementations. Uniqueness and atomic state transitions
// are enforced here, by the database, never by check-then-act logic above.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/novawear/internal/apperr"
	"github.com/example/novawear/internal/models"
)

// UserRepository persists user records.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields a conflict error
	// from the store's unique index, so two concurrent registrations with
	// the same email cannot both succeed.
	Create(ctx context.Context, user *models.User) error

	// FindByEmail returns the user with the given normalized email,
	// including the password hash.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID returns the user with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// SetResetToken stores the hash and expiry of a pending reset secret,
	// overwriting any previous pending token.
	SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiry time.Time) error

	// ClearResetToken removes a pending reset token, returning the user to
	// the no-reset-pending state. Used to roll back after delivery failure.
	ClearResetToken(ctx context.Context, userID uuid.UUID) error

	// ConsumeResetToken atomically finds the user whose stored token hash
	// matches and whose expiry is still in the future, replaces the
	// password hash, and clears both reset columns. A single guarded
	// update, so concurrent consumption attempts cannot both succeed.
	ConsumeResetToken(ctx context.Context, tokenHash, newPasswordHash string) (*models.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a Postgres-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("user already exists with this email")
		}
		return apperr.Internal("failed to create user", err)
	}
	return nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}
	return &user, nil
}

func (r *gormUserRepository) SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiry time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token_hash":   tokenHash,
			"reset_token_expiry": expiry,
		})
	if res.Error != nil {
		return apperr.Internal("failed to store reset token", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *gormUserRepository) ClearResetToken(ctx context.Context, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token_hash":   nil,
			"reset_token_expiry": nil,
		}).Error
	if err != nil {
		return apperr.Internal("failed to clear reset token", err)
	}
	return nil
}

func (r *gormUserRepository) ConsumeResetToken(ctx context.Context, tokenHash, newPasswordHash string) (*models.User, error) {
	var user models.User
	res := r.db.WithContext(ctx).Model(&user).
		Clauses(clause.Returning{}).
		Where("reset_token_hash = ? AND reset_token_expiry > ?", tokenHash, time.Now()).
		Updates(map[string]interface{}{
			"password_hash":      newPasswordHash,
			"reset_token_hash":   nil,
			"reset_token_expiry": nil,
		})
	if res.Error != nil {
		return nil, apperr.Internal("failed to consume reset token", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Validation("invalid or expired reset token")
	}
	return &user, nil
}
