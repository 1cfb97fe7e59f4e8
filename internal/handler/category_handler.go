package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/categories と管理者CRUDのHTTP
type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

// DI
func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GET /api/categories
func (h *CategoryHandler) List(c echo.Context) error {
	cs, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return respondOK(c, cs)
}

// POST /api/admin/categories
func (h *CategoryHandler) AdminCreate(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	cat, err := h.uc.AdminCreateCategory(c.Request().Context(), userID, usecase.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondCreated(c, cat)
}

// PUT /api/admin/categories/:id
func (h *CategoryHandler) AdminUpdate(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	if err := h.uc.AdminUpdateCategory(c.Request().Context(), userID, id, usecase.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	}); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "updated")
}

// DELETE /api/admin/categories/:id（アクティブ商品があれば409）
func (h *CategoryHandler) AdminDelete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	if err := h.uc.AdminDeleteCategory(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "deleted")
}
