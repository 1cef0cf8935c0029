// Package handler exposes the HTTP handlers of the service.  Handlers
// bind and validate requests, delegate the business decision to the
// service layer, and translate domain outcomes into status codes.
// They never contain capacity or state machine logic themselves.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/repository"
	"github.com/iliyamo/gym-class-reservation/internal/service"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  JWT middleware stores claims untyped, so several runtime
// representations are tolerated.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseDateParam parses a YYYY-MM-DD query or body value.
func parseDateParam(raw string) (time.Time, bool) {
	d, err := model.ParseDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// domainError translates a domain outcome into an HTTP response.
// Business rejections are expected results and map to 4xx with the
// reason; anything unrecognized is an infrastructure fault and maps to
// a generic 500, never to a domain message.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrClassNotFound),
		errors.Is(err, repository.ErrPackageNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrRegistrationNotFound),
		errors.Is(err, repository.ErrPromotionNotFound),
		errors.Is(err, repository.ErrTrainerNotFound),
		errors.Is(err, repository.ErrMemberNotFound),
		errors.Is(err, repository.ErrSalaryNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, model.ErrClassFull):
		return c.JSON(http.StatusConflict, echo.Map{"error": "class is full"})
	case errors.Is(err, model.ErrDuplicateBooking):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already booked for this session"})
	case errors.Is(err, model.ErrDuplicateClassRegistration):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already enrolled in this class"})
	case errors.Is(err, model.ErrDuplicateActivePackage):
		return c.JSON(http.StatusConflict, echo.Map{"error": "an active package already exists"})
	case errors.Is(err, model.ErrAlreadyCanceled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already canceled"})
	case errors.Is(err, model.ErrAlreadyPaid):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already paid"})
	case errors.Is(err, model.ErrAlreadyGenerated):
		return c.JSON(http.StatusConflict, echo.Map{"error": "salaries already generated for this month"})
	case errors.Is(err, model.ErrNotActive):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not in an active state"})
	case errors.Is(err, model.ErrEnrollmentClosed):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "enrollment must start after today"})
	case errors.Is(err, model.ErrInvalidPromotion):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid promotion code"})
	case errors.Is(err, model.ErrReasonRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cancel reason is required"})
	case errors.Is(err, model.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date or duration"})
	case errors.Is(err, model.ErrInvalidMonth):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be YYYY-MM"})
	case errors.Is(err, model.ErrInvalidWeekday):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid weekday list"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "resource changed concurrently"})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
