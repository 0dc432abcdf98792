package http

import (
	"net/http"

	"library-backend/internal/usecase/catalog"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct{ uc *catalog.Usecase }

func NewCategoryHandler(uc *catalog.Usecase) *CategoryHandler { return &CategoryHandler{uc: uc} }

type categoryReq struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	cat, err := h.uc.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

// List accepts page and limit.
func (h *CategoryHandler) List(c echo.Context) error {
	var page, limit int
	err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters", Code: CodeBadRequest})
	}
	out, err := h.uc.ListCategories(c.Request().Context(), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	cat, err := h.uc.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	cat, err := h.uc.UpdateCategory(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.uc.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
