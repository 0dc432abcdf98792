package http

import (
	"net/http"
	"strconv"
	"time"

	"library-backend/internal/usecase/catalog"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

type BookHandler struct{ uc *catalog.Usecase }

func NewBookHandler(uc *catalog.Usecase) *BookHandler { return &BookHandler{uc: uc} }

type bookReq struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Author      string `json:"author"      validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	ISBN        string `json:"isbn"        validate:"required,max=20"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	PublishedDate string `json:"published_date" validate:"required,datetime=2006-01-02"`
	Quantity      int    `json:"quantity"       validate:"gte=0"`
	CategoryID    string `json:"category_id"    validate:"required,hex32"`
}

func (r bookReq) input() catalog.BookInput {
	// validated by the datetime tag
	published, _ := time.Parse(dateLayout, r.PublishedDate)
	return catalog.BookInput{
		Title:         r.Title,
		Author:        r.Author,
		Description:   r.Description,
		ISBN:          r.ISBN,
		PublishedDate: published,
		Quantity:      r.Quantity,
		CategoryID:    r.CategoryID,
	}
}

func (h *BookHandler) bind(c echo.Context) (catalog.BookInput, bool, error) {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return catalog.BookInput{}, false, badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return catalog.BookInput{}, false, validationFailed(c, err)
	}
	return req.input(), true, nil
}

func (h *BookHandler) Create(c echo.Context) error {
	in, ok, err := h.bind(c)
	if !ok {
		return err
	}
	b, err := h.uc.CreateBook(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BookHandler) Update(c echo.Context) error {
	in, ok, err := h.bind(c)
	if !ok {
		return err
	}
	b, err := h.uc.UpdateBook(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BookHandler) Get(c echo.Context) error {
	b, err := h.uc.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BookHandler) Delete(c echo.Context) error {
	if err := h.uc.DeleteBook(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List accepts title, author, category_id, available (bool), page and limit.
func (h *BookHandler) List(c echo.Context) error {
	var in catalog.ListInput
	err := echo.QueryParamsBinder(c).
		String("title", &in.Title).
		String("author", &in.Author).
		String("category_id", &in.CategoryID).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters", Code: CodeBadRequest})
	}
	if raw := c.QueryParam("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "available must be true or false", Code: CodeBadRequest})
		}
		in.Available = &v
	}

	page, err := h.uc.ListBooks(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
