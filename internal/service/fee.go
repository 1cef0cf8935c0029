package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// FeeInput names the product a member is paying for and the optional
// promotion code.  Exactly one of PackageID / ClassID is set.
type FeeInput struct {
	PackageID      *uint64
	ClassID        *uint64
	DurationMonths int
	PromotionCode  *string
}

// FeeResult carries the priced outcome.  PromotionID is set only when
// a code was supplied and accepted.
type FeeResult struct {
	BaseCents   int64
	FinalCents  int64
	PromotionID *uint64
}

// FeeEngine prices registrations.  It is read-only: it never writes
// and never holds locks, so callers may invoke it inside or outside a
// serialized section.
type FeeEngine struct {
	catalog    Catalog
	promotions PromotionLookup
}

// NewFeeEngine wires the engine onto its lookups.
func NewFeeEngine(catalog Catalog, promotions PromotionLookup) *FeeEngine {
	return &FeeEngine{catalog: catalog, promotions: promotions}
}

// ComputeFee resolves the base price for the product and applies the
// promotion at most once.  A supplied code that does not resolve to an
// active in-window promotion fails with ErrInvalidPromotion rather
// than silently charging full price.
func (e *FeeEngine) ComputeFee(ctx context.Context, in FeeInput, today time.Time) (FeeResult, error) {
	var base int64
	switch {
	case in.PackageID != nil:
		if in.DurationMonths <= 0 {
			return FeeResult{}, model.ErrInvalidDateRange
		}
		pkg, err := e.catalog.Package(ctx, *in.PackageID)
		if err != nil {
			return FeeResult{}, err
		}
		base = pkg.MonthlyPriceCents * int64(in.DurationMonths)
	case in.ClassID != nil:
		class, err := e.catalog.Class(ctx, *in.ClassID)
		if err != nil {
			return FeeResult{}, err
		}
		if class.PriceCents == nil {
			return FeeResult{}, errors.New("class has no enrollment price")
		}
		base = *class.PriceCents
	default:
		return FeeResult{}, errors.New("fee input names neither a package nor a class")
	}

	result := FeeResult{BaseCents: base, FinalCents: base}
	if in.PromotionCode == nil || *in.PromotionCode == "" {
		return result, nil
	}

	promo, err := e.promotions.PromotionByCode(ctx, *in.PromotionCode)
	if err != nil {
		return FeeResult{}, model.ErrInvalidPromotion
	}
	if !promo.ValidOn(today) {
		return FeeResult{}, model.ErrInvalidPromotion
	}
	result.FinalCents = promo.Apply(base)
	result.PromotionID = &promo.ID
	return result, nil
}
