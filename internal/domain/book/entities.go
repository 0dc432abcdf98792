package book

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("book not found")
	ErrUnavailable      = errors.New("book is not available")
	ErrDuplicateISBN    = errors.New("isbn already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryInUse    = errors.New("category is referenced by books")
	ErrInUse            = errors.New("book is referenced by borrowing requests")
)

// Table: categories
type Category struct {
	ID        string    `gorm:"column:id;type:char(32);primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null;uniqueIndex:ux_categories_name" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// Table: books
//
// Quantity is the number of owned copies, Available the number currently
// loanable. 0 <= Available <= Quantity between workflow operations.
type Book struct {
	ID            string    `gorm:"column:id;type:char(32);primaryKey" json:"id"`
	Title         string    `gorm:"column:title;size:200;not null" json:"title"`
	Author        string    `gorm:"column:author;size:100;not null" json:"author"`
	Description   string    `gorm:"column:description;size:1000;not null" json:"description"`
	ISBN          string    `gorm:"column:isbn;size:20;not null;uniqueIndex:ux_books_isbn" json:"isbn"`
	PublishedDate time.Time `gorm:"column:published_date;type:date;not null" json:"published_date"`
	Quantity      int       `gorm:"column:quantity;not null" json:"quantity"`
	Available     int       `gorm:"column:available;not null" json:"available"`
	CategoryID    string    `gorm:"column:category_id;type:char(32);not null;index:idx_books_category" json:"category_id"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string { return "books" }

// Consistent reports whether the counters respect 0 <= available <= quantity.
func (b *Book) Consistent() bool {
	return b.Available >= 0 && b.Available <= b.Quantity
}

// SetQuantity changes the owned copy count and shifts Available by the same
// delta, never below zero.
func (b *Book) SetQuantity(q int) {
	b.Available += q - b.Quantity
	if b.Available < 0 {
		b.Available = 0
	}
	b.Quantity = q
}
