package sqlitedb

import (
	"testing"
	"time"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"
	"library-backend/pkg/id"

	"gorm.io/gorm"
)

func SeedUser(t *testing.T, gdb *gorm.DB, username string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{
		ID:           id.NewID32(),
		Username:     username,
		DisplayName:  username,
		PasswordHash: "x",
		Role:         role,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func SeedCategory(t *testing.T, gdb *gorm.DB, name string) *book.Category {
	t.Helper()
	c := &book.Category{ID: id.NewID32(), Name: name}
	if err := gdb.Create(c).Error; err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return c
}

// SeedBook inserts a book with quantity copies, all available.
func SeedBook(t *testing.T, gdb *gorm.DB, categoryID, title string, quantity int) *book.Book {
	t.Helper()
	b := &book.Book{
		ID:            id.NewID32(),
		Title:         title,
		Author:        "Author of " + title,
		Description:   "about " + title,
		ISBN:          id.NewID32()[:13],
		PublishedDate: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		Quantity:      quantity,
		Available:     quantity,
		CategoryID:    categoryID,
	}
	if err := gdb.Omit("Category").Create(b).Error; err != nil {
		t.Fatalf("seed book %s: %v", title, err)
	}
	return b
}

// Available reads the current available counter of a book.
func Available(t *testing.T, gdb *gorm.DB, bookID string) int {
	t.Helper()
	var b book.Book
	if err := gdb.Select("available").Where("id = ?", bookID).First(&b).Error; err != nil {
		t.Fatalf("read book %s: %v", bookID, err)
	}
	return b.Available
}
