package mysql

import (
	"context"
	"errors"

	"library-backend/internal/domain/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return user.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*user.User, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	u, err := r.first(r.db.WithContext(ctx).Where("username = ?", login))
	if errors.Is(err, user.ErrNotFound) {
		return r.first(r.db.WithContext(ctx).Where("email = ?", login))
	}
	return u, err
}

func (r *UserRepository) first(q *gorm.DB) (*user.User, error) {
	var out user.User
	err := q.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
