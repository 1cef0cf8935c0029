package model

import "time"

// Promotion is a percentage discount code with a validity window.  It
// is stateless with respect to registrations: validity is checked at
// apply time against the active flag and date range only, there is no
// usage ledger.
//
// Fields:
//
//	ID              – primary key identifier.
//	Code            – unique promotion code, matched case-sensitively.
//	DiscountPercent – whole percent in [0, 100].
//	IsActive        – manual kill switch independent of the window.
//	StartDate       – first valid date (inclusive).
//	EndDate         – last valid date (inclusive).
type Promotion struct {
	ID              uint64    // promotions.id
	Code            string    // promotions.code
	DiscountPercent uint8     // promotions.discount_percent
	IsActive        bool      // promotions.is_active
	StartDate       time.Time // promotions.start_date
	EndDate         time.Time // promotions.end_date
	CreatedAt       time.Time // promotions.created_at
}

// ValidOn reports whether the promotion may be applied on the given
// date: it must be active and the date must fall inside the window.
func (p *Promotion) ValidOn(today time.Time) bool {
	if !p.IsActive {
		return false
	}
	d := Date(today)
	return !d.Before(Date(p.StartDate)) && !d.After(Date(p.EndDate))
}

// Apply discounts baseCents by DiscountPercent, rounding half-up to
// the minor currency unit.  The discount applies exactly once per
// registration and is never compounded; the result never exceeds the
// base amount.
func (p *Promotion) Apply(baseCents int64) int64 {
	pct := int64(p.DiscountPercent)
	if pct <= 0 {
		return baseCents
	}
	if pct >= 100 {
		return 0
	}
	// round(base * (100-pct) / 100) half-up in integer math
	return (baseCents*(100-pct) + 50) / 100
}
