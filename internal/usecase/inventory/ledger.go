// Package inventory keeps the per-book available counter in step with
// borrowing requests.
package inventory

import (
	"context"
	"fmt"

	"library-backend/internal/domain/book"
)

// Ledger runs against whatever repository it is given; bind it to a
// transaction to make reservations part of that transaction.
type Ledger struct{ books book.Repository }

func NewLedger(books book.Repository) *Ledger { return &Ledger{books: books} }

// CheckAndReserve takes one copy of bookID. The returned book reflects the
// decrement.
func (l *Ledger) CheckAndReserve(ctx context.Context, bookID string) (*book.Book, error) {
	b, err := l.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b.Available <= 0 {
		return nil, fmt.Errorf("%w: %s", book.ErrUnavailable, b.Title)
	}

	ok, err := l.books.DecrementAvailable(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost the last copy to a concurrent writer
		return nil, fmt.Errorf("%w: %s", book.ErrUnavailable, b.Title)
	}
	b.Available--
	return b, nil
}

// Restore returns one copy of bookID. Not clamped to quantity.
func (l *Ledger) Restore(ctx context.Context, bookID string) error {
	ok, err := l.books.IncrementAvailable(ctx, bookID)
	if err != nil {
		return err
	}
	if !ok {
		return book.ErrNotFound
	}
	return nil
}
