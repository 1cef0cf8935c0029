package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/service"
)

// PayrollHandler serves the admin payroll routes.
type PayrollHandler struct {
	Payroll *service.PayrollService
}

type salaryResponse struct {
	ID                      uint64  `json:"id"`
	TrainerID               uint64  `json:"trainer_id"`
	Month                   string  `json:"month"`
	BaseSalaryCents         int64   `json:"base_salary_cents"`
	PackageCommissionCents  int64   `json:"package_commission_cents"`
	ClassCommissionCents    int64   `json:"class_commission_cents"`
	PersonalCommissionCents int64   `json:"personal_commission_cents"`
	PerformanceBonusCents   int64   `json:"performance_bonus_cents"`
	AttendanceBonusCents    int64   `json:"attendance_bonus_cents"`
	TotalCents              int64   `json:"total_cents"`
	PaymentDate             *string `json:"payment_date"`
}

func salaryJSON(s *model.SalaryRecord) salaryResponse {
	out := salaryResponse{
		ID:                      s.ID,
		TrainerID:               s.TrainerID,
		Month:                   s.Month,
		BaseSalaryCents:         s.BaseSalaryCents,
		PackageCommissionCents:  s.PackageCommissionCents,
		ClassCommissionCents:    s.ClassCommissionCents,
		PersonalCommissionCents: s.PersonalCommissionCents,
		PerformanceBonusCents:   s.PerformanceBonusCents,
		AttendanceBonusCents:    s.AttendanceBonusCents,
		TotalCents:              s.TotalCents,
	}
	if s.PaymentDate != nil {
		d := s.PaymentDate.Format(model.DateLayout)
		out.PaymentDate = &d
	}
	return out
}

// Generate handles POST /v1/admin/payroll/:month/generate.
// Regenerating an existing month is rejected, never silently
// duplicated.
func (h *PayrollHandler) Generate(c echo.Context) error {
	month := c.Param("month")
	created, err := h.Payroll.GenerateMonthlySalaries(c.Request().Context(), month)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"month": month, "created": created})
}

// Commission handles GET /v1/admin/trainers/:id/commission/:month.
// The full component breakdown is returned for audit display.
func (h *PayrollHandler) Commission(c echo.Context) error {
	trainerID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trainer id"})
	}
	month := c.Param("month")

	breakdown, err := h.Payroll.CalculateCommission(c.Request().Context(), trainerID, month)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, breakdown)
}

// List handles GET /v1/admin/payroll/:month.
func (h *PayrollHandler) List(c echo.Context) error {
	month := c.Param("month")
	records, err := h.Payroll.SalariesByMonth(c.Request().Context(), month)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]salaryResponse, 0, len(records))
	for i := range records {
		out = append(out, salaryJSON(&records[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Pay handles POST /v1/admin/salaries/:id/pay.
func (h *PayrollHandler) Pay(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid salary id"})
	}
	rec, err := h.Payroll.PaySalary(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, salaryJSON(rec))
}

// PayAll handles POST /v1/admin/payroll/:month/pay-all.  Each record
// settles independently; the response lists every outcome.
func (h *PayrollHandler) PayAll(c echo.Context) error {
	month := c.Param("month")
	outcomes, err := h.Payroll.PayAllForMonth(c.Request().Context(), month)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"month": month, "results": outcomes})
}
