package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/middleware"
	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/queue"
	"github.com/iliyamo/gym-class-reservation/internal/repository"
	"github.com/iliyamo/gym-class-reservation/internal/service"
)

// BookingHandler serves the member booking routes.  Capacity and state
// decisions happen in the coordinator; this layer binds requests and
// dispatches fire-and-forget notifications after a successful commit.
type BookingHandler struct {
	Coordinator *service.BookingCoordinator
	ClassRepo   *repository.ClassRepo
	BookingRepo *repository.BookingRepo
}

// NewBookingHandler constructs the handler.  All dependencies must be
// non-nil.
func NewBookingHandler(coord *service.BookingCoordinator, classRepo *repository.ClassRepo, bookingRepo *repository.BookingRepo) *BookingHandler {
	if coord == nil || classRepo == nil || bookingRepo == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Coordinator: coord, ClassRepo: classRepo, BookingRepo: bookingRepo}
}

type bookRequest struct {
	Date string  `json:"date"`
	Note *string `json:"note"`
}

type bookingResponse struct {
	ID      uint64  `json:"id"`
	ClassID uint64  `json:"class_id"`
	Date    string  `json:"date"`
	Status  string  `json:"status"`
	Note    *string `json:"note,omitempty"`
}

func bookingJSON(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:      b.ID,
		ClassID: b.ClassID,
		Date:    b.Date.Format(model.DateLayout),
		Status:  b.Status,
		Note:    b.Note,
	}
}

// Book handles POST /v1/classes/:id/bookings.  On success the
// confirmation event is published in a goroutine, outside the
// serialized section, and its failure never fails the booking.
func (h *BookingHandler) Book(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	var body bookRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, ok := parseDateParam(body.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	booking, err := h.Coordinator.BookClass(c.Request().Context(), memberID, classID, date, body.Note)
	if err != nil {
		return domainError(c, err)
	}

	go h.publishConfirmed(booking)

	return c.JSON(http.StatusCreated, bookingJSON(booking))
}

// Cancel handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Cancel(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	booking, err := h.Coordinator.CancelBooking(c.Request().Context(), memberID, id)
	if err != nil {
		return domainError(c, err)
	}

	go h.publishCancelled(booking)

	return c.JSON(http.StatusOK, bookingJSON(booking))
}

// Attend handles POST /v1/bookings/:id/attend.  Attendance can only be
// recorded on the session day itself, by the booking's owner or by an
// admin checking a member in at the front desk.
func (h *BookingHandler) Attend(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	role, _ := c.Get("role").(string)

	booking, err := h.Coordinator.MarkAttended(c.Request().Context(), memberID, id, model.Today(), role == middleware.RoleAdmin)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, bookingJSON(booking))
}

// MyBookings handles GET /v1/my-bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.BookingRepo.ListByMember(c.Request().Context(), memberID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// publishConfirmed enriches and publishes the confirmation event.  It
// runs detached from the request; errors are already logged by the
// publisher and deliberately swallowed here.
func (h *BookingHandler) publishConfirmed(b *model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		MemberID:    b.MemberID,
		ClassID:     b.ClassID,
		Date:        b.Date.Format(model.DateLayout),
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if class, err := h.ClassRepo.GetByID(ctx, b.ClassID); err == nil {
		ev.ClassName = class.Name
		ev.StartTime = class.StartTime
		ev.EndTime = class.EndTime
	}
	_ = queue.PublishBookingConfirmed(ctx, ev)
}

func (h *BookingHandler) publishCancelled(b *model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.BookingCancelledEvent{
		BookingID:   b.ID,
		MemberID:    b.MemberID,
		ClassID:     b.ClassID,
		Date:        b.Date.Format(model.DateLayout),
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	}
	if class, err := h.ClassRepo.GetByID(ctx, b.ClassID); err == nil {
		ev.ClassName = class.Name
	}
	_ = queue.PublishBookingCancelled(ctx, ev)
}
