package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/services と管理者CRUDのHTTP
type ServiceHandler struct {
	uc *usecase.ServiceUsecase
}

// DI
func NewServiceHandler(uc *usecase.ServiceUsecase) *ServiceHandler {
	return &ServiceHandler{uc: uc}
}

type ServiceRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	IsAvailable     bool    `json:"is_available"`
}

// GET /api/services
func (h *ServiceHandler) List(c echo.Context) error {
	ss, err := h.uc.ListServices(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return respondOK(c, ss)
}

// GET /api/services/:id
func (h *ServiceHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	s, err := h.uc.GetServiceDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return respondOK(c, s)
}

// POST /api/admin/services
func (h *ServiceHandler) AdminCreate(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	s, err := h.uc.AdminCreateService(c.Request().Context(), userID, usecase.ServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsAvailable:     req.IsAvailable,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondCreated(c, s)
}

// PUT /api/admin/services/:id
func (h *ServiceHandler) AdminUpdate(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	if err := h.uc.AdminUpdateService(c.Request().Context(), userID, id, usecase.ServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsAvailable:     req.IsAvailable,
	}); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "updated")
}

// DELETE /api/admin/services/:id（提供停止）
func (h *ServiceHandler) AdminDelete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	if err := h.uc.AdminDeleteService(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "deleted")
}
