package user

import (
	"context"
	"errors"
	"time"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// Table: refresh_tokens
//
// One row per issued refresh token; ID is the token's jti claim. A rotated
// token points at its successor through ReplacedBy.
type RefreshToken struct {
	ID         string     `gorm:"column:id;type:char(32);primaryKey"`
	UserID     string     `gorm:"column:user_id;type:char(32);not null;index:idx_refresh_tokens_user"`
	ExpiresAt  time.Time  `gorm:"column:expires_at;not null"`
	RevokedAt  *time.Time `gorm:"column:revoked_at"`
	ReplacedBy *string    `gorm:"column:replaced_by;type:char(32)"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// Active reports whether the token may still be exchanged at now.
func (t *RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, t *RefreshToken) error
	GetByID(ctx context.Context, id string) (*RefreshToken, error)
	// Revoke marks the token revoked only if it is not already.
	// Returns false when another caller revoked it first.
	Revoke(ctx context.Context, id string, replacedBy *string, at time.Time) (bool, error)
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) error
}
