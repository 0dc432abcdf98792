package mysql

import (
	"context"
	"errors"
	"time"

	"library-backend/internal/domain/book"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) *BookRepository { return &BookRepository{db: db} }

func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return book.ErrDuplicateISBN
	}
	return err
}

func (r *BookRepository) GetByID(ctx context.Context, id string) (*book.Book, error) {
	var out book.Book
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, book.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BookRepository) GetByIDForUpdate(ctx context.Context, id string) (*book.Book, error) {
	var out book.Book
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, book.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BookRepository) Save(ctx context.Context, b *book.Book) error {
	err := r.db.WithContext(ctx).Model(b).
		Omit(clause.Associations).
		Select("title", "author", "description", "isbn", "published_date", "category_id", "updated_at").
		Updates(b).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return book.ErrDuplicateISBN
	}
	return err
}

// SetQuantity relies on the right-hand side seeing the old quantity: sqlite
// evaluates every assignment against the old row, mysql evaluates left to
// right, so available must be assigned before quantity.
func (r *BookRepository) SetQuantity(ctx context.Context, id string, q int) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE books
		    SET available = CASE WHEN available + (? - quantity) < 0 THEN 0 ELSE available + (? - quantity) END,
		        quantity = ?,
		        updated_at = ?
		  WHERE id = ?`,
		q, q, q, time.Now().UTC(), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&book.Book{})
	if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
		return book.ErrInUse
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *BookRepository) List(ctx context.Context, f book.ListFilter) ([]book.Book, int64, error) {
	q := r.db.WithContext(ctx).Model(&book.Book{})
	if f.Title != "" {
		q = q.Where("title LIKE ?", "%"+f.Title+"%")
	}
	if f.Author != "" {
		q = q.Where("author LIKE ?", "%"+f.Author+"%")
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Available != nil {
		if *f.Available {
			q = q.Where("available > 0")
		} else {
			q = q.Where("available <= 0")
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []book.Book
	q = q.Preload("Category").Order("title ASC, id ASC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *BookRepository) DecrementAvailable(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&book.Book{}).
		Where("id = ? AND available > 0", id).
		Update("available", gorm.Expr("available - 1"))
	return res.RowsAffected == 1, res.Error
}

func (r *BookRepository) IncrementAvailable(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&book.Book{}).
		Where("id = ?", id).
		Update("available", gorm.Expr("available + 1"))
	return res.RowsAffected == 1, res.Error
}

func (r *BookRepository) ListInconsistent(ctx context.Context) ([]book.Book, error) {
	var out []book.Book
	err := r.db.WithContext(ctx).
		Where("available < 0 OR available > quantity").
		Order("id ASC").
		Find(&out).Error
	return out, err
}
