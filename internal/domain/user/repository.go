package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	// Row lock; serializes concurrent writes issued on behalf of one user.
	GetByIDForUpdate(ctx context.Context, id string) (*User, error)
	// Matches username first, then email.
	GetByLogin(ctx context.Context, login string) (*User, error)
}
