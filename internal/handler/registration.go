package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/service"
)

// RegistrationHandler serves the member registration routes: buying
// packages, enrolling in classes, and the cancel / extend / renew
// follow-ups.
type RegistrationHandler struct {
	Desk *service.RegistrationDesk
}

// NewRegistrationHandler constructs the handler.
func NewRegistrationHandler(desk *service.RegistrationDesk) *RegistrationHandler {
	if desk == nil {
		panic("nil desk passed to NewRegistrationHandler")
	}
	return &RegistrationHandler{Desk: desk}
}

type registrationResponse struct {
	ID          uint64  `json:"id"`
	PackageID   *uint64 `json:"package_id,omitempty"`
	ClassID     *uint64 `json:"class_id,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Status      string  `json:"status"`
	AmountCents int64   `json:"amount_cents"`
	PaymentRef  string  `json:"payment_ref,omitempty"`
}

func registrationJSON(g *model.Registration, paymentRef string) registrationResponse {
	return registrationResponse{
		ID:          g.ID,
		PackageID:   g.PackageID,
		ClassID:     g.ClassID,
		StartDate:   g.StartDate.Format(model.DateLayout),
		EndDate:     g.EndDate.Format(model.DateLayout),
		Status:      g.Status,
		AmountCents: g.AmountCents,
		PaymentRef:  paymentRef,
	}
}

// RegisterPackage handles POST /v1/packages/:id/register.
func (h *RegistrationHandler) RegisterPackage(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	packageID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
	}
	var body struct {
		DurationMonths int     `json:"duration_months"`
		PromotionCode  *string `json:"promotion_code"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.DurationMonths <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_months must be positive"})
	}

	out, err := h.Desk.RegisterPackage(c.Request().Context(), memberID, packageID, body.DurationMonths, body.PromotionCode)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, registrationJSON(out.Registration, out.PaymentRef))
}

// RegisterClass handles POST /v1/classes/:id/register.
func (h *RegistrationHandler) RegisterClass(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	var body struct {
		StartDate      string  `json:"start_date"`
		DurationMonths int     `json:"duration_months"`
		PromotionCode  *string `json:"promotion_code"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, ok := parseDateParam(body.StartDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	if body.DurationMonths <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_months must be positive"})
	}

	out, err := h.Desk.RegisterClass(c.Request().Context(), memberID, classID, start, body.DurationMonths, body.PromotionCode)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, registrationJSON(out.Registration, out.PaymentRef))
}

// Cancel handles DELETE /v1/registrations/:id.  A non-empty reason is
// required in the body.
func (h *RegistrationHandler) Cancel(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	reg, err := h.Desk.CancelRegistration(c.Request().Context(), memberID, id, body.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, registrationJSON(reg, ""))
}

// Extend handles POST /v1/registrations/:id/extend.
func (h *RegistrationHandler) Extend(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
	}
	var body struct {
		Months int `json:"months"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	reg, err := h.Desk.ExtendRegistration(c.Request().Context(), memberID, id, body.Months)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, registrationJSON(reg, ""))
}

// Renew handles POST /v1/registrations/:id/renew.  The fee is always
// recomputed from current catalog prices.
func (h *RegistrationHandler) Renew(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
	}
	var body struct {
		Months        int     `json:"months"`
		PromotionCode *string `json:"promotion_code"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Months <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "months must be positive"})
	}

	out, err := h.Desk.RenewRegistration(c.Request().Context(), memberID, id, body.Months, body.PromotionCode)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, registrationJSON(out.Registration, out.PaymentRef))
}

// MyRegistrations handles GET /v1/my-registrations.
func (h *RegistrationHandler) MyRegistrations(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	regs, err := h.Desk.MemberRegistrations(c.Request().Context(), memberID)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]registrationResponse, 0, len(regs))
	for i := range regs {
		out = append(out, registrationJSON(&regs[i], ""))
	}
	return c.JSON(http.StatusOK, out)
}
