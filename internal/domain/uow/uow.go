package uow

import (
	"context"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/borrowing"
	"library-backend/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Books      book.Repository
	Categories book.CategoryRepository
	Requests   borrowing.Repository
	Users      user.Repository
}

type UnitOfWork interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
