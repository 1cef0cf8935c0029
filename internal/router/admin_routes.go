package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/handler"
	"github.com/iliyamo/gym-class-reservation/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and ADMIN role.
func RegisterAdmin(e *echo.Echo, classes *handler.AdminClassHandler, catalog *handler.AdminCatalogHandler, payroll *handler.PayrollHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
	)

	// ---- Classes ----
	g.GET("/classes", classes.List)
	g.POST("/classes", classes.Create)
	g.PUT("/classes/:id", classes.Update)
	g.POST("/classes/:id/close", classes.Close)

	// ---- Packages ----
	g.POST("/packages", catalog.CreatePackage)
	g.PUT("/packages/:id", catalog.UpdatePackage)

	// ---- Promotions ----
	g.GET("/promotions", catalog.ListPromotions)
	g.POST("/promotions", catalog.CreatePromotion)
	g.POST("/promotions/:id/deactivate", catalog.DeactivatePromotion)

	// ---- Trainers & personal training ----
	g.GET("/trainers", catalog.ListTrainers)
	g.POST("/personal-trainings", catalog.CreatePersonalTraining)
	g.POST("/personal-trainings/:id/:action", catalog.SetPersonalTrainingStatus)

	// ---- Payroll ----
	g.GET("/payroll/:month", payroll.List)
	g.POST("/payroll/:month/generate", payroll.Generate)
	g.POST("/payroll/:month/pay-all", payroll.PayAll)
	g.GET("/trainers/:id/commission/:month", payroll.Commission)
	g.POST("/salaries/:id/pay", payroll.Pay)
}
