package usermock

import (
	"context"

	"library-backend/internal/domain/user"
)

var _ user.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies user.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, u *user.User) error
	GetByIDFn          func(ctx context.Context, id string) (*user.User, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*user.User, error)
	GetByLoginFn       func(ctx context.Context, login string) (*user.User, error)
}

func (m *Repo) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, user.ErrNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*user.User, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, user.ErrNotFound
}

func (m *Repo) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	if m.GetByLoginFn != nil {
		return m.GetByLoginFn(ctx, login)
	}
	return nil, user.ErrNotFound
}
