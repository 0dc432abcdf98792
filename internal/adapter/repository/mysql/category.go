package mysql

import (
	"context"
	"errors"

	"library-backend/internal/domain/book"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) *CategoryRepository { return &CategoryRepository{db: db} }

func (r *CategoryRepository) Create(ctx context.Context, c *book.Category) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return book.ErrCategoryExists
	}
	return err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*book.Category, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CategoryRepository) GetByIDForUpdate(ctx context.Context, id string) (*book.Category, error) {
	var out book.Category
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, book.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*book.Category, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *CategoryRepository) first(ctx context.Context, cond string, arg string) (*book.Category, error) {
	var out book.Category
	err := r.db.WithContext(ctx).Where(cond, arg).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, book.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CategoryRepository) Save(ctx context.Context, c *book.Category) error {
	err := r.db.WithContext(ctx).Model(c).Select("name", "updated_at").Updates(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return book.ErrCategoryExists
	}
	return err
}

// List pages by name; limit <= 0 returns every row.
func (r *CategoryRepository) List(ctx context.Context, offset, limit int) ([]book.Category, int64, error) {
	q := r.db.WithContext(ctx).Model(&book.Category{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []book.Category
	q = q.Order("name ASC, id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Delete maps a foreign-key refusal to ErrCategoryInUse.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&book.Category{})
	if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
		return book.ErrCategoryInUse
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return book.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) CountBooks(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&book.Book{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}
