package server

import (
	"net/http"

	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	if d.Config.GlobalRateLimitRPS > 0 {
		api.Use(middleware.GlobalRateLimit(d.Config.GlobalRateLimitRPS))
	}
	api.Use(middleware.AuthJWT(d.Config.JWTSecret))
	api.Use(middleware.TokenVersionGuard(d.Users))

	d.Orders.RegisterRoutes(api, middleware.OrderCreateRateLimit(d.OrderLimiter))

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRoleGuard())
	d.AdminOrders.RegisterRoutes(admin)
}
