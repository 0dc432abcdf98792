package http

import (
	"net/http"

	"library-backend/internal/adapter/middleware"
	"library-backend/internal/usecase/borrowing"

	"github.com/labstack/echo/v4"
)

type BorrowingHandler struct{ uc *borrowing.Usecase }

func NewBorrowingHandler(uc *borrowing.Usecase) *BorrowingHandler {
	return &BorrowingHandler{uc: uc}
}

// Count and blank-id rules are enforced by the usecase so every caller gets
// the same validation_failed answer.
type createBorrowingReq struct {
	BookIDs []string `json:"book_ids"`
}

func (h *BorrowingHandler) Create(c echo.Context) error {
	var req createBorrowingReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	dto, err := h.uc.Create(c.Request().Context(), borrowing.CreateInput{
		RequestorID: middleware.UserID(c),
		BookIDs:     req.BookIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *BorrowingHandler) Mine(c echo.Context) error {
	list, err := h.uc.ListForUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *BorrowingHandler) All(c echo.Context) error {
	list, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *BorrowingHandler) Approve(c echo.Context) error {
	dto, err := h.uc.Approve(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BorrowingHandler) Reject(c echo.Context) error {
	dto, err := h.uc.Reject(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
