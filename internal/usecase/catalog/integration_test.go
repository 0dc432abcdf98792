package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"library-backend/internal/adapter/repository/mysql"
	"library-backend/internal/domain/book"
	"library-backend/internal/domain/uow"
	"library-backend/internal/testutil/sqlitedb"

	"gorm.io/gorm"
)

// reserveAfterRead takes one copy right after the book row is read, the way a
// borrowing request landing between the read and the write would.
type reserveAfterRead struct {
	book.Repository
}

func (r reserveAfterRead) GetByIDForUpdate(ctx context.Context, id string) (*book.Book, error) {
	b, err := r.Repository.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := r.Repository.DecrementAvailable(ctx, id)
	if err != nil || !ok {
		return nil, fmt.Errorf("reserve copy: ok=%v err=%v", ok, err)
	}
	return b, nil
}

type reservingUoW struct{ inner uow.UnitOfWork }

func (u reservingUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.inner.WithinTx(ctx, func(r uow.Repos) error {
		r.Books = reserveAfterRead{r.Books}
		return fn(r)
	})
}

func newSQLiteUC(db *gorm.DB, tx uow.UnitOfWork) *Usecase {
	return NewUsecase(mysql.NewBookRepository(db), mysql.NewCategoryRepository(db), tx)
}

func TestIntegration_UpdateBookKeepsReservationMadeAfterRead(t *testing.T) {
	db := sqlitedb.Open(t)
	cat := sqlitedb.SeedCategory(t, db, "Fiction")
	b := sqlitedb.SeedBook(t, db, cat.ID, "Dune", 2)

	in := validInput(cat.ID)
	in.Quantity = 3
	got, err := newSQLiteUC(db, reservingUoW{mysql.NewGormUoW(db)}).UpdateBook(context.Background(), b.ID, in)
	if err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}
	// 2 copies, 1 reserved mid-update, 1 copy added: 2 on the shelf
	if got.Quantity != 3 || got.Available != 2 {
		t.Fatalf("returned qty=%d avail=%d, want 3/2", got.Quantity, got.Available)
	}
	if avail := sqlitedb.Available(t, db, b.ID); avail != 2 {
		t.Fatalf("stored available = %d, want 2", avail)
	}
	if got.Title != "Dune" || got.Category == nil || got.Category.ID != cat.ID {
		t.Fatalf("descriptive fields not returned: %+v", got)
	}
}

func TestIntegration_DeleteCategoryAndBook(t *testing.T) {
	db := sqlitedb.Open(t)
	uc := newSQLiteUC(db, mysql.NewGormUoW(db))
	ctx := context.Background()

	cat := sqlitedb.SeedCategory(t, db, "Fiction")
	b := sqlitedb.SeedBook(t, db, cat.ID, "Dune", 1)

	if err := uc.DeleteCategory(ctx, cat.ID); !errors.Is(err, book.ErrCategoryInUse) {
		t.Fatalf("category with a book: want ErrCategoryInUse, got %v", err)
	}
	if err := uc.DeleteBook(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	if _, err := uc.GetBook(ctx, b.ID); !errors.Is(err, book.ErrNotFound) {
		t.Fatalf("deleted book still readable: %v", err)
	}
	if err := uc.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := uc.GetCategory(ctx, cat.ID); !errors.Is(err, book.ErrCategoryNotFound) {
		t.Fatalf("deleted category still readable: %v", err)
	}
}
