// Package catalog manages categories and the book records the borrowing
// workflow reserves from.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/uow"
	"library-backend/pkg/id"
	"library-backend/pkg/pagination"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	books      book.Repository
	categories book.CategoryRepository
	uow        uow.UnitOfWork
}

// NewUsecase: plain reads and inserts use books and categories, anything that
// checks state before writing goes through tx.
func NewUsecase(books book.Repository, categories book.CategoryRepository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{books: books, categories: categories, uow: tx}
}

func (u *Usecase) CreateCategory(ctx context.Context, name string) (*book.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := u.categories.GetByName(ctx, name); err == nil {
		return nil, book.ErrCategoryExists
	} else if !errors.Is(err, book.ErrCategoryNotFound) {
		return nil, err
	}

	c := &book.Category{ID: id.NewID32(), Name: name}
	if err := u.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) GetCategory(ctx context.Context, categoryID string) (*book.Category, error) {
	return u.categories.GetByID(ctx, categoryID)
}

func (u *Usecase) ListCategories(ctx context.Context, page, limit int) (*CategoryPage, error) {
	p := pagination.New(page, limit)
	items, total, err := u.categories.List(ctx, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []book.Category{}
	}
	return &CategoryPage{Items: items, Meta: pagination.NewMeta(p, total)}, nil
}

// UpdateCategory renames a category. Renaming onto another category's name
// is a conflict; keeping the current name is a no-op write.
func (u *Usecase) UpdateCategory(ctx context.Context, categoryID, name string) (*book.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	var updated *book.Category
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Categories.GetByIDForUpdate(ctx, categoryID)
		if err != nil {
			return err
		}
		other, err := r.Categories.GetByName(ctx, name)
		switch {
		case err == nil && other.ID != c.ID:
			return book.ErrCategoryExists
		case err != nil && !errors.Is(err, book.ErrCategoryNotFound):
			return err
		}
		c.Name = name
		if err := r.Categories.Save(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCategory refuses while any book still points at the category. The
// count and the delete share one transaction with the category row locked,
// and the foreign key catches a book inserted by a writer that skipped the lock.
func (u *Usecase) DeleteCategory(ctx context.Context, categoryID string) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Categories.GetByIDForUpdate(ctx, categoryID); err != nil {
			return err
		}
		n, err := r.Categories.CountBooks(ctx, categoryID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d books", book.ErrCategoryInUse, n)
		}
		return r.Categories.Delete(ctx, categoryID)
	})
	if err != nil {
		return err
	}
	slog.Info("category deleted", "category_id", categoryID)
	return nil
}

func validateBook(in BookInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case strings.TrimSpace(in.Author) == "":
		return fmt.Errorf("%w: author is required", ErrInvalidInput)
	case strings.TrimSpace(in.ISBN) == "":
		return fmt.Errorf("%w: isbn is required", ErrInvalidInput)
	case in.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	case in.PublishedDate.IsZero():
		return fmt.Errorf("%w: published date is required", ErrInvalidInput)
	}
	return nil
}

// CreateBook starts with every copy available.
func (u *Usecase) CreateBook(ctx context.Context, in BookInput) (*book.Book, error) {
	if err := validateBook(in); err != nil {
		return nil, err
	}
	cat, err := u.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	b := &book.Book{
		ID:            id.NewID32(),
		Title:         strings.TrimSpace(in.Title),
		Author:        strings.TrimSpace(in.Author),
		Description:   in.Description,
		ISBN:          strings.TrimSpace(in.ISBN),
		PublishedDate: in.PublishedDate.UTC(),
		Quantity:      in.Quantity,
		Available:     in.Quantity,
		CategoryID:    cat.ID,
	}
	if err := u.books.Create(ctx, b); err != nil {
		return nil, err
	}
	b.Category = cat
	slog.Info("book created", "book_id", b.ID, "quantity", b.Quantity)
	return b, nil
}

func (u *Usecase) GetBook(ctx context.Context, bookID string) (*book.Book, error) {
	return u.books.GetByID(ctx, bookID)
}

func (u *Usecase) ListBooks(ctx context.Context, in ListInput) (*BookPage, error) {
	p := pagination.New(in.Page, in.Limit)
	items, total, err := u.books.List(ctx, book.ListFilter{
		Title:      strings.TrimSpace(in.Title),
		Author:     strings.TrimSpace(in.Author),
		CategoryID: in.CategoryID,
		Available:  in.Available,
		Offset:     p.Offset,
		Limit:      p.Limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []book.Book{}
	}
	return &BookPage{Items: items, Meta: pagination.NewMeta(p, total)}, nil
}

// UpdateBook replaces the editable fields. A quantity change moves the
// available counter by the same delta, floored at zero. The counter is
// adjusted in SQL against the current row so a reservation committed after
// the read is not undone.
func (u *Usecase) UpdateBook(ctx context.Context, bookID string, in BookInput) (*book.Book, error) {
	if err := validateBook(in); err != nil {
		return nil, err
	}

	var updated *book.Book
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Books.GetByIDForUpdate(ctx, bookID)
		if err != nil {
			return err
		}
		if b.CategoryID != in.CategoryID {
			cat, err := r.Categories.GetByID(ctx, in.CategoryID)
			if err != nil {
				return err
			}
			b.CategoryID = cat.ID
		}

		b.Title = strings.TrimSpace(in.Title)
		b.Author = strings.TrimSpace(in.Author)
		b.Description = in.Description
		b.ISBN = strings.TrimSpace(in.ISBN)
		b.PublishedDate = in.PublishedDate.UTC()
		if err := r.Books.Save(ctx, b); err != nil {
			return err
		}
		if in.Quantity != b.Quantity {
			if err := r.Books.SetQuantity(ctx, b.ID, in.Quantity); err != nil {
				return err
			}
		}

		updated, err = r.Books.GetByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBook refuses while any borrowing request, in any status, lists the book.
func (u *Usecase) DeleteBook(ctx context.Context, bookID string) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Books.GetByIDForUpdate(ctx, bookID); err != nil {
			return err
		}
		n, err := r.Requests.CountByBook(ctx, bookID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d requests", book.ErrInUse, n)
		}
		return r.Books.Delete(ctx, bookID)
	})
	if err != nil {
		return err
	}
	slog.Info("book deleted", "book_id", bookID)
	return nil
}
