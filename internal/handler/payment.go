package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/service"
)

// PaymentHandler receives the asynchronous settlement callback from
// the payment gateway.  The callback authenticates with a shared
// secret header instead of a member JWT.
type PaymentHandler struct {
	Desk   *service.RegistrationDesk
	Secret string
}

// Callback handles POST /v1/payments/callback.  A settled payment
// activates its registration; gateway retries are tolerated because
// activation is guarded on the pending state.
func (h *PaymentHandler) Callback(c echo.Context) error {
	got := c.Request().Header.Get("X-Payment-Secret")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		RegistrationID uint64 `json:"registration_id"`
		PaymentRef     string `json:"payment_ref"`
		Status         string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RegistrationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration_id is required"})
	}
	if body.Status != "SETTLED" {
		// Failed or expired payments leave the registration pending;
		// the member can retry the purchase.
		return c.JSON(http.StatusOK, echo.Map{"registration_id": body.RegistrationID, "status": "ignored"})
	}

	reg, err := h.Desk.ActivateOnPayment(c.Request().Context(), body.RegistrationID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"registration_id": reg.ID,
		"status":          reg.Status,
		"start_date":      reg.StartDate.Format(model.DateLayout),
		"end_date":        reg.EndDate.Format(model.DateLayout),
	})
}
