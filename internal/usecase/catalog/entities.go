package catalog

import (
	"time"

	"library-backend/internal/domain/book"
	"library-backend/pkg/pagination"
)

type BookInput struct {
	Title         string
	Author        string
	Description   string
	ISBN          string
	PublishedDate time.Time
	Quantity      int
	CategoryID    string
}

type ListInput struct {
	Title      string
	Author     string
	CategoryID string
	Available  *bool
	Page       int
	Limit      int
}

type BookPage struct {
	Items []book.Book     `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

type CategoryPage struct {
	Items []book.Category `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}
