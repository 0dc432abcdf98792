package bookmock

import (
	"context"

	"library-backend/internal/domain/book"
)

var (
	_ book.Repository         = (*Repo)(nil)
	_ book.CategoryRepository = (*CategoryRepo)(nil)
)

// Repo is a function-backed mock that satisfies book.Repository.
// Unset getters return book.ErrNotFound; unset writes succeed.
type Repo struct {
	CreateFn             func(ctx context.Context, b *book.Book) error
	GetByIDFn            func(ctx context.Context, id string) (*book.Book, error)
	GetByIDForUpdateFn   func(ctx context.Context, id string) (*book.Book, error)
	SaveFn               func(ctx context.Context, b *book.Book) error
	ListFn               func(ctx context.Context, f book.ListFilter) ([]book.Book, int64, error)
	DeleteFn             func(ctx context.Context, id string) error
	SetQuantityFn        func(ctx context.Context, id string, q int) error
	DecrementAvailableFn func(ctx context.Context, id string) (bool, error)
	IncrementAvailableFn func(ctx context.Context, id string) (bool, error)
	ListInconsistentFn   func(ctx context.Context) ([]book.Book, error)
}

func (m *Repo) Create(ctx context.Context, b *book.Book) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*book.Book, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, book.ErrNotFound
}

// GetByIDForUpdate falls back to GetByIDFn when unset.
func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*book.Book, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *Repo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) SetQuantity(ctx context.Context, id string, q int) error {
	if m.SetQuantityFn != nil {
		return m.SetQuantityFn(ctx, id, q)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, b *book.Book) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f book.ListFilter) ([]book.Book, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *Repo) DecrementAvailable(ctx context.Context, id string) (bool, error) {
	if m.DecrementAvailableFn != nil {
		return m.DecrementAvailableFn(ctx, id)
	}
	return true, nil
}

func (m *Repo) IncrementAvailable(ctx context.Context, id string) (bool, error) {
	if m.IncrementAvailableFn != nil {
		return m.IncrementAvailableFn(ctx, id)
	}
	return true, nil
}

func (m *Repo) ListInconsistent(ctx context.Context) ([]book.Book, error) {
	if m.ListInconsistentFn != nil {
		return m.ListInconsistentFn(ctx)
	}
	return nil, nil
}

// CategoryRepo is a function-backed mock that satisfies book.CategoryRepository.
type CategoryRepo struct {
	CreateFn     func(ctx context.Context, c *book.Category) error
	GetByIDFn    func(ctx context.Context, id string) (*book.Category, error)
	GetByNameFn  func(ctx context.Context, name string) (*book.Category, error)
	SaveFn       func(ctx context.Context, c *book.Category) error
	ListFn       func(ctx context.Context, offset, limit int) ([]book.Category, int64, error)
	DeleteFn     func(ctx context.Context, id string) error
	CountBooksFn func(ctx context.Context, id string) (int64, error)
}

func (m *CategoryRepo) Create(ctx context.Context, c *book.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *CategoryRepo) GetByID(ctx context.Context, id string) (*book.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, book.ErrCategoryNotFound
}

func (m *CategoryRepo) GetByName(ctx context.Context, name string) (*book.Category, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}
	return nil, book.ErrCategoryNotFound
}

// GetByIDForUpdate delegates to GetByIDFn.
func (m *CategoryRepo) GetByIDForUpdate(ctx context.Context, id string) (*book.Category, error) {
	return m.GetByID(ctx, id)
}

func (m *CategoryRepo) Save(ctx context.Context, c *book.Category) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *CategoryRepo) List(ctx context.Context, offset, limit int) ([]book.Category, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *CategoryRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *CategoryRepo) CountBooks(ctx context.Context, id string) (int64, error) {
	if m.CountBooksFn != nil {
		return m.CountBooksFn(ctx, id)
	}
	return 0, nil
}
