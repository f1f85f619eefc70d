package handlers

import (
	"net/http"

	"placemate/internal/common"
	"placemate/internal/services"

	"github.com/labstack/echo/v4"
)

type CategoryHandlers struct {
	categoryService services.CategoryService
}

func NewCategoryHandlers(categoryService services.CategoryService) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

type createCategoryRequest struct {
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

// ListCategories handles GET /categories
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.List(c.Request().Context())
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// CreateCategory handles POST /categories
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	category, err := h.categoryService.Create(c.Request().Context(), userID, req.Name, req.Icon)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, category)
}
