package handler

import (
	"net/http"
	"strconv"
	"time"

	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/appointments のHTTP
type AppointmentHandler struct {
	uc *usecase.AppointmentUsecase
}

// DI
func NewAppointmentHandler(uc *usecase.AppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

type BookAppointmentRequest struct {
	ServiceID   int64  `json:"service_id"`
	PetName     string `json:"pet_name"`
	ScheduledAt string `json:"scheduled_at"` // RFC3339
	Notes       string `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

type appointmentListData struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// POST /api/appointments
func (h *AppointmentHandler) Book(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	var req BookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return writeBadRequest(c, "scheduled_at must be RFC3339")
	}

	out, err := h.uc.Book(c.Request().Context(), userID, usecase.BookAppointmentInput{
		ServiceID:   req.ServiceID,
		PetName:     req.PetName,
		ScheduledAt: scheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondCreated(c, out)
}

// GET /api/appointments
func (h *AppointmentHandler) ListMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	page, limit := parsePageLimit(c)
	items, total, err := h.uc.ListMyAppointments(c.Request().Context(), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}

	return respondOK(c, appointmentListData{
		Items:      items,
		Pagination: newPagination(page, limit, total),
	})
}

// POST /api/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	if err := h.uc.Cancel(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "cancelled")
}

// GET /api/admin/appointments
func (h *AppointmentHandler) AdminList(c echo.Context) error {
	page, limit := parsePageLimit(c)

	f := repo.AppointmentListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	}
	if v := c.QueryParam("user_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return writeBadRequest(c, "invalid user_id")
		}
		f.UserID = &n
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return writeBadRequest(c, "invalid from")
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return writeBadRequest(c, "invalid to")
		}
		f.To = &t
	}

	items, total, err := h.uc.AdminList(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return respondOK(c, appointmentListData{
		Items:      items,
		Pagination: newPagination(page, limit, total),
	})
}

// PUT /api/admin/appointments/:id/status
func (h *AppointmentHandler) AdminUpdateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeUnauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeBadRequest(c, "invalid id")
	}

	var req UpdateAppointmentStatusRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, "invalid body")
	}

	if err := h.uc.AdminUpdateStatus(c.Request().Context(), userID, id, usecase.AdminUpdateAppointmentStatusInput{
		Status: req.Status,
	}); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "status updated")
}
