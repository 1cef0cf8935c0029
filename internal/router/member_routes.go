package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/handler"
	"github.com/iliyamo/gym-class-reservation/internal/middleware"
)

// RegisterMember registers member-scoped endpoints under /v1.  All
// routes require a valid JWT with the MEMBER role (ADMIN passes too,
// for front-desk operation on a member's behalf).  Members book and
// cancel class sessions, check in, and manage their registrations.
func RegisterMember(e *echo.Echo, b *handler.BookingHandler, r *handler.RegistrationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleMember, middleware.RoleAdmin),
	)

	// ---- Bookings ----
	g.POST("/classes/:id/bookings", b.Book)
	g.DELETE("/bookings/:id", b.Cancel)
	g.POST("/bookings/:id/attend", b.Attend)
	g.GET("/my-bookings", b.MyBookings)

	// ---- Registrations ----
	g.POST("/packages/:id/register", r.RegisterPackage)
	g.POST("/classes/:id/register", r.RegisterClass)
	g.DELETE("/registrations/:id", r.Cancel)
	g.POST("/registrations/:id/extend", r.Extend)
	g.POST("/registrations/:id/renew", r.Renew)
	g.GET("/my-registrations", r.MyRegistrations)
}
