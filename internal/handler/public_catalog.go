package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/repository"
	"github.com/iliyamo/gym-class-reservation/internal/service"
)

// PublicHandler serves the unauthenticated browsing API: the class
// catalog, membership packages and per-date availability.  Responses
// contain only safe fields.
type PublicHandler struct {
	ClassRepo   *repository.ClassRepo
	PackageRepo *repository.PackageRepo
	Coordinator *service.BookingCoordinator
}

// PublicClass is a class exposed via the public API.
type PublicClass struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Days       string `json:"days"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Capacity   uint32 `json:"capacity"`
	PriceCents *int64 `json:"price_cents,omitempty"`
}

// PublicPackage is a membership package exposed via the public API.
type PublicPackage struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	MonthlyPriceCents int64  `json:"monthly_price_cents"`
}

func publicClass(c *model.Class) PublicClass {
	return PublicClass{
		ID:         c.ID,
		Name:       c.Name,
		Days:       c.Days.String(),
		StartTime:  c.StartTime,
		EndTime:    c.EndTime,
		Capacity:   c.Capacity,
		PriceCents: c.PriceCents,
	}
}

// ListClasses handles GET /v1/classes.  Only open classes are shown.
func (h *PublicHandler) ListClasses(c echo.Context) error {
	classes, err := h.ClassRepo.List(c.Request().Context(), true)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]PublicClass, 0, len(classes))
	for i := range classes {
		out = append(out, publicClass(&classes[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetClass handles GET /v1/classes/:id.
func (h *PublicHandler) GetClass(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	class, err := h.ClassRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, publicClass(class))
}

// ListPackages handles GET /v1/packages.
func (h *PublicHandler) ListPackages(c echo.Context) error {
	packages, err := h.PackageRepo.List(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	out := make([]PublicPackage, 0, len(packages))
	for _, p := range packages {
		if !p.IsActive {
			continue
		}
		out = append(out, PublicPackage{ID: p.ID, Name: p.Name, MonthlyPriceCents: p.MonthlyPriceCents})
	}
	return c.JSON(http.StatusOK, out)
}

// Availability handles GET /v1/classes/:id/availability?date=YYYY-MM-DD.
// It reports the live seat count for one session, combining booked
// seats and standing enrollment seats.
func (h *PublicHandler) Availability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	date, ok := parseDateParam(c.QueryParam("date"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	occ, err := h.Coordinator.Availability(c.Request().Context(), id, date)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"class_id":        id,
		"date":            date.Format(model.DateLayout),
		"total_capacity":  occ.Capacity,
		"booked":          occ.BookedCount,
		"registered":      occ.RegisteredCount,
		"available_seats": occ.AvailableSeats(),
		"is_full":         occ.IsFull(),
		"level":           occ.Level(),
	})
}
