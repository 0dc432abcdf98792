package http

import (
	"library-backend/internal/adapter/middleware"
	"library-backend/internal/domain/user"
	"library-backend/pkg/token"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health    *Handler
	Auth      *AuthHandler
	Category  *CategoryHandler
	Book      *BookHandler
	Borrowing *BorrowingHandler
}

// RegisterRoutes mounts the public API on e. idem guards borrowing-request
// creation when non-nil.
func RegisterRoutes(e *echo.Echo, h Handlers, issuer *token.Issuer, idem echo.MiddlewareFunc) {
	e.Validator = NewValidator()

	e.GET("/health", h.Health.Health)

	api := e.Group("/api")
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	authed := api.Group("", middleware.JWTAuth(issuer))
	admin := middleware.RequireRole(user.RoleSuperUser)
	member := middleware.RequireRole(user.RoleUser)

	authed.GET("/auth/profile", h.Auth.Profile)
	authed.POST("/auth/logout", h.Auth.Logout)

	authed.GET("/categories", h.Category.List)
	authed.GET("/categories/:id", h.Category.Get)
	authed.POST("/categories", h.Category.Create, admin)
	authed.PUT("/categories/:id", h.Category.Update, admin)
	authed.DELETE("/categories/:id", h.Category.Delete, admin)

	authed.GET("/books", h.Book.List)
	authed.GET("/books/:id", h.Book.Get)
	authed.POST("/books", h.Book.Create, admin)
	authed.PUT("/books/:id", h.Book.Update, admin)
	authed.DELETE("/books/:id", h.Book.Delete, admin)

	create := []echo.MiddlewareFunc{member}
	if idem != nil {
		create = append(create, idem)
	}
	authed.POST("/borrowing-requests", h.Borrowing.Create, create...)
	authed.GET("/borrowing-requests/mine", h.Borrowing.Mine, member)
	authed.GET("/borrowing-requests", h.Borrowing.All, admin)
	authed.POST("/borrowing-requests/:id/approve", h.Borrowing.Approve, admin)
	authed.POST("/borrowing-requests/:id/reject", h.Borrowing.Reject, admin)
}
