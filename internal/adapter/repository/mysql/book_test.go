package mysql

import (
	"context"
	"errors"
	"testing"

	"library-backend/internal/domain/book"
	"library-backend/internal/testutil/sqlitedb"
	"library-backend/pkg/id"
)

func TestBook_CreateGetSave(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	cat := sqlitedb.SeedCategory(t, db, "Fiction")
	repo := NewBookRepository(db)

	b := &book.Book{
		ID: id.NewID32(), Title: "Dune", Author: "Herbert", Description: "sand",
		ISBN: "9780441013593", Quantity: 3, Available: 3, CategoryID: cat.ID,
	}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Dune" || got.Category == nil || got.Category.Name != "Fiction" {
		t.Fatalf("unexpected book: %+v", got)
	}

	// Save must not write stale counters back
	got.Title = "Dune Messiah"
	got.Quantity, got.Available = 99, 99
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved, _ := repo.GetByID(ctx, b.ID)
	if saved.Title != "Dune Messiah" || saved.Quantity != 3 || saved.Available != 3 {
		t.Fatalf("after Save: title=%q qty=%d avail=%d", saved.Title, saved.Quantity, saved.Available)
	}

	dup := *b
	dup.ID = id.NewID32()
	if err := repo.Create(ctx, &dup); !errors.Is(err, book.ErrDuplicateISBN) {
		t.Fatalf("duplicate isbn: want ErrDuplicateISBN, got %v", err)
	}

	if _, err := repo.GetByID(ctx, id.NewID32()); !errors.Is(err, book.ErrNotFound) {
		t.Fatalf("missing book: want ErrNotFound, got %v", err)
	}
}

func TestBook_DecrementAvailable_StopsAtZero(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	cat := sqlitedb.SeedCategory(t, db, "Poetry")
	b := sqlitedb.SeedBook(t, db, cat.ID, "Odes", 2)
	repo := NewBookRepository(db)

	for i := 0; i < 2; i++ {
		ok, err := repo.DecrementAvailable(ctx, b.ID)
		if err != nil || !ok {
			t.Fatalf("decrement %d: ok=%v err=%v", i, ok, err)
		}
	}
	ok, err := repo.DecrementAvailable(ctx, b.ID)
	if err != nil {
		t.Fatalf("decrement at zero: %v", err)
	}
	if ok {
		t.Fatalf("decrement at zero must not change the row")
	}
	if n := sqlitedb.Available(t, db, b.ID); n != 0 {
		t.Fatalf("available = %d, want 0", n)
	}

	if ok, _ := repo.DecrementAvailable(ctx, id.NewID32()); ok {
		t.Fatalf("decrement of a missing book must report false")
	}
}

func TestBook_IncrementAvailable_Unclamped(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	cat := sqlitedb.SeedCategory(t, db, "Poetry")
	b := sqlitedb.SeedBook(t, db, cat.ID, "Odes", 1)
	repo := NewBookRepository(db)

	ok, err := repo.IncrementAvailable(ctx, b.ID)
	if err != nil || !ok {
		t.Fatalf("increment: ok=%v err=%v", ok, err)
	}
	if n := sqlitedb.Available(t, db, b.ID); n != 2 {
		t.Fatalf("available = %d, want 2", n)
	}

	bad, err := repo.ListInconsistent(ctx)
	if err != nil {
		t.Fatalf("ListInconsistent: %v", err)
	}
	if len(bad) != 1 || bad[0].ID != b.ID {
		t.Fatalf("expected the over-restored book, got %+v", bad)
	}

	if ok, _ := repo.IncrementAvailable(ctx, id.NewID32()); ok {
		t.Fatalf("increment of a missing book must report false")
	}
}

func TestBook_List_FiltersAndPages(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	fic := sqlitedb.SeedCategory(t, db, "Fiction")
	sci := sqlitedb.SeedCategory(t, db, "Science")
	sqlitedb.SeedBook(t, db, fic.ID, "Alpha Tale", 1)
	sqlitedb.SeedBook(t, db, fic.ID, "Beta Tale", 1)
	empty := sqlitedb.SeedBook(t, db, sci.ID, "Gamma Facts", 1)
	if err := db.Model(&book.Book{}).Where("id = ?", empty.ID).Update("available", 0).Error; err != nil {
		t.Fatal(err)
	}
	repo := NewBookRepository(db)

	all, total, err := repo.List(ctx, book.ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(all) != 2 || all[0].Title != "Alpha Tale" {
		t.Fatalf("page 1: total=%d items=%+v", total, all)
	}

	page2, _, _ := repo.List(ctx, book.ListFilter{Offset: 2, Limit: 2})
	if len(page2) != 1 || page2[0].Title != "Gamma Facts" {
		t.Fatalf("page 2: %+v", page2)
	}

	tales, total, _ := repo.List(ctx, book.ListFilter{Title: "Tale", CategoryID: fic.ID})
	if total != 2 || len(tales) != 2 {
		t.Fatalf("title+category filter: total=%d", total)
	}

	yes, no := true, false
	if _, total, _ := repo.List(ctx, book.ListFilter{Available: &yes}); total != 2 {
		t.Fatalf("available=true: total=%d, want 2", total)
	}
	if items, total, _ := repo.List(ctx, book.ListFilter{Available: &no}); total != 1 || items[0].ID != empty.ID {
		t.Fatalf("available=false: total=%d", total)
	}
}

func TestBook_SetQuantity_AppliesDeltaToCurrentRow(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	cat := sqlitedb.SeedCategory(t, db, "Drama")
	repo := NewBookRepository(db)

	tests := []struct {
		name              string
		qty, lent, newQty int
		wantAvail         int
	}{
		{"grow", 2, 1, 3, 2},
		{"shrink", 4, 1, 3, 2},
		{"shrink below lent copies", 3, 3, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sqlitedb.SeedBook(t, db, cat.ID, tt.name, tt.qty)
			for i := 0; i < tt.lent; i++ {
				if _, err := repo.DecrementAvailable(ctx, b.ID); err != nil {
					t.Fatalf("decrement: %v", err)
				}
			}
			if err := repo.SetQuantity(ctx, b.ID, tt.newQty); err != nil {
				t.Fatalf("SetQuantity: %v", err)
			}
			got, _ := repo.GetByID(ctx, b.ID)
			if got.Quantity != tt.newQty || got.Available != tt.wantAvail {
				t.Fatalf("qty=%d avail=%d, want qty=%d avail=%d", got.Quantity, got.Available, tt.newQty, tt.wantAvail)
			}
		})
	}

	if err := repo.SetQuantity(ctx, id.NewID32(), 1); !errors.Is(err, book.ErrNotFound) {
		t.Fatalf("missing book: want ErrNotFound, got %v", err)
	}
}

func TestBook_GetByIDForUpdateAndDelete(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	cat := sqlitedb.SeedCategory(t, db, "Essays")
	b := sqlitedb.SeedBook(t, db, cat.ID, "Walden", 1)
	repo := NewBookRepository(db)

	locked, err := repo.GetByIDForUpdate(ctx, b.ID)
	if err != nil || locked.ID != b.ID || locked.Quantity != 1 {
		t.Fatalf("GetByIDForUpdate: %+v %v", locked, err)
	}
	if _, err := repo.GetByIDForUpdate(ctx, id.NewID32()); !errors.Is(err, book.ErrNotFound) {
		t.Fatalf("missing: want ErrNotFound, got %v", err)
	}

	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, b.ID); !errors.Is(err, book.ErrNotFound) {
		t.Fatalf("Delete twice: want ErrNotFound, got %v", err)
	}
}
