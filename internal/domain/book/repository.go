package book

import "context"

type ListFilter struct {
	Title      string
	Author     string
	CategoryID string
	// nil: any; true: available > 0; false: available = 0
	Available *bool
	Offset    int
	Limit     int
}

type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id string) (*Book, error)
	// Locks the book row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*Book, error)
	// Save writes the descriptive fields. Quantity and Available are left
	// alone; they only move through the counter methods below.
	Save(ctx context.Context, b *Book) error
	List(ctx context.Context, f ListFilter) ([]Book, int64, error)
	Delete(ctx context.Context, id string) error

	// SetQuantity sets quantity to q and shifts available by the same delta,
	// floored at zero, in one statement against the current row.
	SetQuantity(ctx context.Context, id string, q int) error

	// DecrementAvailable takes one copy only while available > 0.
	// Returns false when no row was changed.
	DecrementAvailable(ctx context.Context, id string) (bool, error)
	// IncrementAvailable returns one copy. Not clamped against quantity.
	// Returns false when the book does not exist.
	IncrementAvailable(ctx context.Context, id string) (bool, error)

	// ListInconsistent returns books whose available count is outside [0, quantity].
	ListInconsistent(ctx context.Context) ([]Book, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	Save(ctx context.Context, c *Category) error
	List(ctx context.Context, offset, limit int) ([]Category, int64, error)
	Delete(ctx context.Context, id string) error
	CountBooks(ctx context.Context, id string) (int64, error)
}
