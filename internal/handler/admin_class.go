package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/repository"
)

// AdminClassHandler serves the admin class schedule routes.  Weekday
// schedules arrive as "MON,WED,FRI" strings and are parsed once here;
// everything downstream works with the bitmask.
type AdminClassHandler struct {
	ClassRepo   *repository.ClassRepo
	TrainerRepo *repository.TrainerRepo
}

type classRequest struct {
	TrainerID  uint64 `json:"trainer_id"`
	Name       string `json:"name"`
	Days       string `json:"days"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Capacity   uint32 `json:"capacity"`
	PriceCents *int64 `json:"price_cents"`
}

func (b *classRequest) validate(c echo.Context) (model.WeekdaySet, bool) {
	if b.TrainerID == 0 || b.Name == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "trainer_id and name are required"})
		return 0, false
	}
	days, err := model.ParseWeekdaySet(b.Days)
	if err != nil || days.IsEmpty() {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "days must list weekdays like MON,WED,FRI"})
		return 0, false
	}
	if b.Capacity == 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
		return 0, false
	}
	return days, true
}

// Create handles POST /v1/admin/classes.
func (h *AdminClassHandler) Create(c echo.Context) error {
	var body classRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	days, ok := body.validate(c)
	if !ok {
		return nil
	}
	// The trainer must exist before a schedule can reference them.
	if _, err := h.TrainerRepo.GetByID(c.Request().Context(), body.TrainerID); err != nil {
		return domainError(c, err)
	}

	class := &model.Class{
		TrainerID:  body.TrainerID,
		Name:       body.Name,
		Days:       days,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
		Capacity:   body.Capacity,
		PriceCents: body.PriceCents,
	}
	if err := h.ClassRepo.Create(c.Request().Context(), class); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, publicClass(class))
}

// Update handles PUT /v1/admin/classes/:id.  Capacity may be reduced
// below current occupancy; existing commitments are never revoked, the
// class simply reports full until attrition catches up.
func (h *AdminClassHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	var body classRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	days, ok := body.validate(c)
	if !ok {
		return nil
	}

	class, err := h.ClassRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	class.Name = body.Name
	class.Days = days
	class.StartTime = body.StartTime
	class.EndTime = body.EndTime
	class.Capacity = body.Capacity
	class.PriceCents = body.PriceCents

	if err := h.ClassRepo.Update(c.Request().Context(), class); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, publicClass(class))
}

// Close handles POST /v1/admin/classes/:id/close.  A closed class
// stops accepting bookings and enrollments; existing commitments keep
// their seats.
func (h *AdminClassHandler) Close(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	if err := h.ClassRepo.Close(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.ClassClosed})
}

type adminClass struct {
	PublicClass
	TrainerID uint64 `json:"trainer_id"`
	Status    string `json:"status"`
}

// List handles GET /v1/admin/classes.  Unlike the public catalog,
// closed classes are included.
func (h *AdminClassHandler) List(c echo.Context) error {
	classes, err := h.ClassRepo.List(c.Request().Context(), false)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]adminClass, 0, len(classes))
	for i := range classes {
		out = append(out, adminClass{
			PublicClass: publicClass(&classes[i]),
			TrainerID:   classes[i].TrainerID,
			Status:      classes[i].Status,
		})
	}
	return c.JSON(http.StatusOK, out)
}
