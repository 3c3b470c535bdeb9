package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/models"
	"gorm.io/gorm"
)

// ErrTokenRotated signals that the refresh token being rotated was already
// revoked by a concurrent refresh; the caller must fail the whole refresh.
var ErrTokenRotated = errors.New("refresh token already revoked")

// RefreshTokenRepository tracks issued refresh token identifiers for
// revocation and rotation. Rows are revoked, never deleted.
type RefreshTokenRepository struct{}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{}
}

// Record persists a new, not-yet-revoked refresh token record
func (r *RefreshTokenRepository) Record(ctx context.Context, token *models.RefreshToken) error {
	if err := database.DB.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to record refresh token: %w", err)
	}
	return nil
}

// Find retrieves a refresh token record by jti, nil when none exists.
func (r *RefreshTokenRepository) Find(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := database.DB.WithContext(ctx).
		Where("jti = ?", jti).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return &token, nil
}

// Revoke sets revoked_at if not already set. Revoking an already-revoked or
// unknown token is a no-op, not an error.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, jti string) error {
	if err := database.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", time.Now().UTC()).Error; err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// IsValid reports whether a record exists for the jti with a matching tenant,
// no revocation, and a future expiry.
func (r *RefreshTokenRepository) IsValid(ctx context.Context, jti, tenantSlug string) (bool, error) {
	var token models.RefreshToken
	err := database.DB.WithContext(ctx).
		Where("jti = ? AND tenant_slug = ?", jti, tenantSlug).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if token.RevokedAt != nil {
		return false, nil
	}
	return token.ExpiresAt.After(time.Now().UTC()), nil
}

// Rotate revokes the old token and records its successor in one transaction.
// The conditional revoke makes concurrent rotations of the same token
// mutually exclusive: the loser observes zero updated rows and the whole
// refresh fails, leaving no orphaned successor.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldJTI string, successor *models.RefreshToken) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND revoked_at IS NULL", oldJTI).
			Update("revoked_at", time.Now().UTC())
		if res.Error != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrTokenRotated
		}
		if err := tx.Create(successor).Error; err != nil {
			return fmt.Errorf("failed to record successor token: %w", err)
		}
		return nil
	})
}
