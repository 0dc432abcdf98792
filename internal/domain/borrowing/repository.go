package borrowing

import (
	"context"
	"time"
)

type Repository interface {
	// Create writes the header and all details as one aggregate.
	Create(ctx context.Context, r *Request) error

	GetByID(ctx context.Context, id string) (*Request, error)
	// Locks the header row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*Request, error)
	// Locks the header row and loads details with their books.
	GetWithDetailsForUpdate(ctx context.Context, id string) (*Request, error)
	// Loads requestor, approver and details with their books.
	GetWithDetails(ctx context.Context, id string) (*Request, error)

	ListByRequestor(ctx context.Context, requestorID string) ([]Request, error)
	ListAll(ctx context.Context) ([]Request, error)

	// CountRequestedBetween counts requests of requestorID with from <= requested_date < to.
	CountRequestedBetween(ctx context.Context, requestorID string, from, to time.Time) (int64, error)

	// CountByBook counts detail lines that reference bookID.
	CountByBook(ctx context.Context, bookID string) (int64, error)

	// UpdateStatus sets status and approver only if the row is still in from.
	// Returns ErrInvalidTransition when it is not.
	UpdateStatus(ctx context.Context, id string, from, to Status, approverID string) error
}
