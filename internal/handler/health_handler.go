package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// /api/health のHTTP
type HealthHandler struct {
	db *gorm.DB
}

// DI
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthData struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// GET /api/health
func (h *HealthHandler) Check(c echo.Context) error {
	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "error"
	} else if err := sqlDB.PingContext(c.Request().Context()); err != nil {
		dbStatus = "error"
	}

	status := http.StatusOK
	overall := "ok"
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.JSON(status, Envelope{
		Success: overall == "ok",
		Data:    healthData{Status: overall, Database: dbStatus},
	})
}
