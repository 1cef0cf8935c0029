package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/repository"
)

// AdminCatalogHandler serves the admin product routes: membership
// packages, promotions, trainers and personal training sessions.
type AdminCatalogHandler struct {
	PackageRepo   *repository.PackageRepo
	PromotionRepo *repository.PromotionRepo
	TrainerRepo   *repository.TrainerRepo
	MemberRepo    *repository.MemberRepo
	PersonalRepo  *repository.PersonalTrainingRepo
}

// CreatePackage handles POST /v1/admin/packages.
func (h *AdminCatalogHandler) CreatePackage(c echo.Context) error {
	var body struct {
		Name              string `json:"name"`
		MonthlyPriceCents int64  `json:"monthly_price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" || body.MonthlyPriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a positive monthly price are required"})
	}

	pkg := &model.Package{Name: body.Name, MonthlyPriceCents: body.MonthlyPriceCents, IsActive: true}
	if err := h.PackageRepo.Create(c.Request().Context(), pkg); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, PublicPackage{ID: pkg.ID, Name: pkg.Name, MonthlyPriceCents: pkg.MonthlyPriceCents})
}

// UpdatePackage handles PUT /v1/admin/packages/:id.  Price changes
// affect future fee computations only; sold registrations keep their
// recorded amount.
func (h *AdminCatalogHandler) UpdatePackage(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
	}
	var body struct {
		Name              string `json:"name"`
		MonthlyPriceCents int64  `json:"monthly_price_cents"`
		IsActive          *bool  `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	pkg, err := h.PackageRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	if body.Name != "" {
		pkg.Name = body.Name
	}
	if body.MonthlyPriceCents > 0 {
		pkg.MonthlyPriceCents = body.MonthlyPriceCents
	}
	if body.IsActive != nil {
		pkg.IsActive = *body.IsActive
	}
	if err := h.PackageRepo.Update(c.Request().Context(), pkg); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, PublicPackage{ID: pkg.ID, Name: pkg.Name, MonthlyPriceCents: pkg.MonthlyPriceCents})
}

type promotionResponse struct {
	ID              uint64 `json:"id"`
	Code            string `json:"code"`
	DiscountPercent uint8  `json:"discount_percent"`
	IsActive        bool   `json:"is_active"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
}

func promotionJSON(p *model.Promotion) promotionResponse {
	return promotionResponse{
		ID:              p.ID,
		Code:            p.Code,
		DiscountPercent: p.DiscountPercent,
		IsActive:        p.IsActive,
		StartDate:       p.StartDate.Format(model.DateLayout),
		EndDate:         p.EndDate.Format(model.DateLayout),
	}
}

// CreatePromotion handles POST /v1/admin/promotions.
func (h *AdminCatalogHandler) CreatePromotion(c echo.Context) error {
	var body struct {
		Code            string `json:"code"`
		DiscountPercent uint8  `json:"discount_percent"`
		StartDate       string `json:"start_date"`
		EndDate         string `json:"end_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Code == "" || body.DiscountPercent == 0 || body.DiscountPercent > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and a discount between 1 and 100 are required"})
	}
	start, ok := parseDateParam(body.StartDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, ok := parseDateParam(body.EndDate)
	if !ok || end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD and not before start_date"})
	}

	promo := &model.Promotion{
		Code:            body.Code,
		DiscountPercent: body.DiscountPercent,
		IsActive:        true,
		StartDate:       start,
		EndDate:         end,
	}
	if err := h.PromotionRepo.Create(c.Request().Context(), promo); err != nil {
		if err == repository.ErrPromotionCodeTaken {
			return c.JSON(http.StatusConflict, echo.Map{"error": "promotion code already exists"})
		}
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, promotionJSON(promo))
}

// ListPromotions handles GET /v1/admin/promotions.
func (h *AdminCatalogHandler) ListPromotions(c echo.Context) error {
	promos, err := h.PromotionRepo.List(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	out := make([]promotionResponse, 0, len(promos))
	for i := range promos {
		out = append(out, promotionJSON(&promos[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// DeactivatePromotion handles POST /v1/admin/promotions/:id/deactivate.
// Deactivation stops future applications; fees already charged keep
// their discount.
func (h *AdminCatalogHandler) DeactivatePromotion(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid promotion id"})
	}
	if err := h.PromotionRepo.Deactivate(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": false})
}

// ListTrainers handles GET /v1/admin/trainers.
func (h *AdminCatalogHandler) ListTrainers(c echo.Context) error {
	trainers, err := h.TrainerRepo.ListActive(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	type trainerResponse struct {
		ID              uint64 `json:"id"`
		FullName        string `json:"full_name"`
		Email           string `json:"email"`
		BaseSalaryCents int64  `json:"base_salary_cents"`
	}
	out := make([]trainerResponse, 0, len(trainers))
	for _, t := range trainers {
		out = append(out, trainerResponse{ID: t.ID, FullName: t.FullName, Email: t.Email, BaseSalaryCents: t.BaseSalaryCents})
	}
	return c.JSON(http.StatusOK, out)
}

// CreatePersonalTraining handles POST /v1/admin/personal-trainings.
// Sessions are scheduled by the front desk on behalf of a member.
func (h *AdminCatalogHandler) CreatePersonalTraining(c echo.Context) error {
	var body struct {
		TrainerID   uint64 `json:"trainer_id"`
		MemberID    uint64 `json:"member_id"`
		SessionDate string `json:"session_date"`
		PriceCents  int64  `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TrainerID == 0 || body.MemberID == 0 || body.PriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "trainer_id, member_id and a positive price are required"})
	}
	date, ok := parseDateParam(body.SessionDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_date must be YYYY-MM-DD"})
	}
	ctx := c.Request().Context()
	if _, err := h.TrainerRepo.GetByID(ctx, body.TrainerID); err != nil {
		return domainError(c, err)
	}
	if _, err := h.MemberRepo.GetByID(ctx, body.MemberID); err != nil {
		return domainError(c, err)
	}

	session := &model.PersonalTraining{
		TrainerID:   body.TrainerID,
		MemberID:    body.MemberID,
		SessionDate: date,
		PriceCents:  body.PriceCents,
	}
	if err := h.PersonalRepo.Create(ctx, session); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":           session.ID,
		"trainer_id":   session.TrainerID,
		"member_id":    session.MemberID,
		"session_date": session.SessionDate.Format(model.DateLayout),
		"price_cents":  session.PriceCents,
		"status":       session.Status,
	})
}

// SetPersonalTrainingStatus handles POST /v1/admin/personal-trainings/:id/:action
// where action is "complete" or "cancel".  Only scheduled sessions can
// transition; completed revenue feeds trainer commission.
func (h *AdminCatalogHandler) SetPersonalTrainingStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var to string
	switch c.Param("action") {
	case "complete":
		to = model.PTCompleted
	case "cancel":
		to = model.PTCanceled
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action must be complete or cancel"})
	}
	if err := h.PersonalRepo.SetStatus(c.Request().Context(), id, to); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": to})
}
