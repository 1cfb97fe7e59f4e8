package server

import (
	"app/internal/config"
	"app/internal/metrics"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	// ops
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")
	api.GET("/health", h.Health.Check)

	auth := middleware.AuthJWT(cfg)
	admin := middleware.AdminRoleGuard()

	// auth
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh, auth)
	api.POST("/auth/logout", h.Auth.Logout, auth)
	api.GET("/auth/me", h.Auth.Me, auth)

	// catalog（公開）
	api.GET("/products", h.Product.List)
	api.GET("/products/:id", h.Product.Detail)
	api.GET("/categories", h.Category.List)
	api.GET("/services", h.Service.List)
	api.GET("/services/:id", h.Service.Detail)

	// cart
	cart := api.Group("/cart", auth)
	cart.GET("", h.Cart.GetCart)
	cart.DELETE("", h.Cart.Clear)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:id", h.Cart.UpdateItem)
	cart.DELETE("/items/:id", h.Cart.RemoveItem)

	// orders
	orders := api.Group("/orders", auth)
	orders.POST("/from-cart", h.Order.Checkout)
	orders.GET("", h.Order.ListMine)
	orders.GET("/:id", h.Order.Detail)
	orders.POST("/:id/cancel", h.Order.Cancel)
	orders.PUT("/:id/status", h.Order.AdminUpdateStatus, admin)

	// payments
	payments := api.Group("/payments", auth)
	payments.POST("/quick", h.Payment.Quick)
	payments.GET("", h.Payment.ListMine)

	// appointments
	appts := api.Group("/appointments", auth)
	appts.POST("", h.Appointment.Book)
	appts.GET("", h.Appointment.ListMine)
	appts.POST("/:id/cancel", h.Appointment.Cancel)

	// admin
	adminG := api.Group("/admin", auth, admin)
	adminG.GET("/products", h.Product.AdminList)
	adminG.POST("/products", h.Product.AdminCreate)
	adminG.PUT("/products/:id", h.Product.AdminUpdate)
	adminG.DELETE("/products/:id", h.Product.AdminDelete)
	adminG.PATCH("/products/:id/stock", h.Product.AdminSetStock)

	adminG.POST("/categories", h.Category.AdminCreate)
	adminG.PUT("/categories/:id", h.Category.AdminUpdate)
	adminG.DELETE("/categories/:id", h.Category.AdminDelete)

	adminG.POST("/services", h.Service.AdminCreate)
	adminG.PUT("/services/:id", h.Service.AdminUpdate)
	adminG.DELETE("/services/:id", h.Service.AdminDelete)

	adminG.GET("/orders", h.Order.AdminList)

	adminG.GET("/appointments", h.Appointment.AdminList)
	adminG.PUT("/appointments/:id/status", h.Appointment.AdminUpdateStatus)
}
