package server

import (
	"context"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/logger"
	"app/internal/metrics"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Handlers はルーティングに必要なハンドラ一式。mainが組み立てて渡す。
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Product     *handler.ProductHandler
	Category    *handler.CategoryHandler
	Service     *handler.ServiceHandler
	Cart        *handler.CartHandler
	Order       *handler.OrderHandler
	Payment     *handler.PaymentHandler
	Appointment *handler.AppointmentHandler
}

// New はechoエンジンを組み立てる。起動はmainが行う。
func New(cfg config.Config, log *zap.Logger, m *metrics.HTTPMetrics, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(logger.RequestLogger(log))
	e.Use(m.Middleware())

	registerRoutes(e, cfg, h)

	return e
}

// Shutdown は処理中のリクエストを待ってから止める。
func Shutdown(ctx context.Context, e *echo.Echo, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return e.Shutdown(ctx)
}
