package mysql

import (
	"context"
	"errors"
	"time"

	"library-backend/internal/domain/user"

	"gorm.io/gorm"
)

type RefreshTokenRepository struct{ db *gorm.DB }

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *user.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *RefreshTokenRepository) GetByID(ctx context.Context, id string) (*user.RefreshToken, error) {
	var out user.RefreshToken
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrRefreshTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id string, replacedBy *string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&user.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]any{"revoked_at": at.UTC(), "replaced_by": replacedBy})
	return res.RowsAffected == 1, res.Error
}

func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&user.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at.UTC()).Error
}
