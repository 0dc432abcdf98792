package http

import (
	"errors"
	"log/slog"
	"net/http"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/borrowing"
	"library-backend/internal/domain/user"
	"library-backend/internal/usecase/auth"
	"library-backend/internal/usecase/catalog"

	"github.com/labstack/echo/v4"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest        = "bad_request"
	CodeValidation        = "validation_failed"
	CodeQuotaExceeded     = "quota_exceeded"
	CodeBookNotFound      = "book_not_found"
	CodeBookUnavailable   = "book_unavailable"
	CodeNotFound          = "not_found"
	CodeInvalidTransition = "invalid_transition"
	CodeConflict          = "conflict"
	CodeUnauthorized      = "unauthorized"
	CodeInternal          = "internal_error"
)

// statusOf maps a usecase error to its HTTP status and code. Order matters:
// book.ErrNotFound must win over the generic not-found group.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, borrowing.ErrValidation),
		errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, catalog.ErrInvalidInput):
		return http.StatusUnprocessableEntity, CodeValidation
	case errors.Is(err, borrowing.ErrQuotaExceeded):
		return http.StatusConflict, CodeQuotaExceeded
	case errors.Is(err, book.ErrNotFound):
		return http.StatusNotFound, CodeBookNotFound
	case errors.Is(err, book.ErrUnavailable):
		return http.StatusConflict, CodeBookUnavailable
	case errors.Is(err, borrowing.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, book.ErrCategoryNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, borrowing.ErrInvalidTransition):
		return http.StatusConflict, CodeInvalidTransition
	case errors.Is(err, user.ErrUsernameTaken),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, book.ErrDuplicateISBN),
		errors.Is(err, book.ErrCategoryExists),
		errors.Is(err, book.ErrCategoryInUse),
		errors.Is(err, book.ErrInUse):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, CodeUnauthorized
	}
	return http.StatusInternalServerError, CodeInternal
}

func respondError(c echo.Context, err error) error {
	status, code := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("unhandled error",
			"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"path", c.Path(),
			"err", err)
		msg = "internal server error"
	}
	return c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: CodeBadRequest})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    CodeValidation,
		Details: ToFieldErrors(err),
	})
}
