package mysql

import (
	"context"

	"library-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos(tx))
	})
}

// Repos binds every repository to db, which may be a transaction.
func Repos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Books:      &BookRepository{db: db},
		Categories: &CategoryRepository{db: db},
		Requests:   &BorrowingRepository{db: db},
		Users:      &UserRepository{db: db},
	}
}
