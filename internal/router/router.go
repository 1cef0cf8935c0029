// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/handler"
)

// RegisterPublic registers unauthenticated endpoints on the provided
// Echo instance: the health check, the class and package catalog, and
// per-date availability.  These routes apply no JWT middleware so
// prospective members can browse before signing up.
func RegisterPublic(e *echo.Echo, health *handler.HealthHandler, p *handler.PublicHandler) {
	e.GET("/healthz", health.Health)

	e.GET("/v1/classes", p.ListClasses)
	e.GET("/v1/classes/:id", p.GetClass)
	e.GET("/v1/classes/:id/availability", p.Availability)
	e.GET("/v1/packages", p.ListPackages)
}

// RegisterPayment registers the payment gateway callback.  The route
// authenticates with the shared gateway secret inside the handler, not
// with a member JWT.
func RegisterPayment(e *echo.Echo, pay *handler.PaymentHandler) {
	e.POST("/v1/payments/callback", pay.Callback)
}
