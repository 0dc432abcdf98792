package borrowingmock

import (
	"context"
	"time"

	"library-backend/internal/domain/borrowing"
)

var _ borrowing.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies borrowing.Repository.
// Unset getters return borrowing.ErrNotFound; unset writes succeed.
type Repo struct {
	CreateFn                  func(ctx context.Context, r *borrowing.Request) error
	GetByIDFn                 func(ctx context.Context, id string) (*borrowing.Request, error)
	GetByIDForUpdateFn        func(ctx context.Context, id string) (*borrowing.Request, error)
	GetWithDetailsForUpdateFn func(ctx context.Context, id string) (*borrowing.Request, error)
	GetWithDetailsFn          func(ctx context.Context, id string) (*borrowing.Request, error)
	ListByRequestorFn         func(ctx context.Context, requestorID string) ([]borrowing.Request, error)
	ListAllFn                 func(ctx context.Context) ([]borrowing.Request, error)
	CountRequestedBetweenFn   func(ctx context.Context, requestorID string, from, to time.Time) (int64, error)
	CountByBookFn             func(ctx context.Context, bookID string) (int64, error)
	UpdateStatusFn            func(ctx context.Context, id string, from, to borrowing.Status, approverID string) error
}

func (m *Repo) Create(ctx context.Context, r *borrowing.Request) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*borrowing.Request, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, borrowing.ErrNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*borrowing.Request, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, borrowing.ErrNotFound
}

func (m *Repo) GetWithDetailsForUpdate(ctx context.Context, id string) (*borrowing.Request, error) {
	if m.GetWithDetailsForUpdateFn != nil {
		return m.GetWithDetailsForUpdateFn(ctx, id)
	}
	return nil, borrowing.ErrNotFound
}

func (m *Repo) GetWithDetails(ctx context.Context, id string) (*borrowing.Request, error) {
	if m.GetWithDetailsFn != nil {
		return m.GetWithDetailsFn(ctx, id)
	}
	return nil, borrowing.ErrNotFound
}

func (m *Repo) ListByRequestor(ctx context.Context, requestorID string) ([]borrowing.Request, error) {
	if m.ListByRequestorFn != nil {
		return m.ListByRequestorFn(ctx, requestorID)
	}
	return nil, nil
}

func (m *Repo) ListAll(ctx context.Context) ([]borrowing.Request, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}

func (m *Repo) CountRequestedBetween(ctx context.Context, requestorID string, from, to time.Time) (int64, error) {
	if m.CountRequestedBetweenFn != nil {
		return m.CountRequestedBetweenFn(ctx, requestorID, from, to)
	}
	return 0, nil
}

func (m *Repo) UpdateStatus(ctx context.Context, id string, from, to borrowing.Status, approverID string) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, from, to, approverID)
	}
	return nil
}

func (m *Repo) CountByBook(ctx context.Context, bookID string) (int64, error) {
	if m.CountByBookFn != nil {
		return m.CountByBookFn(ctx, bookID)
	}
	return 0, nil
}
