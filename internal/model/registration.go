package model

import "time"

// Registration statuses.  EXPIRED is intentionally absent: expiry is a
// derived predicate (status ACTIVE and end date in the past), never a
// persisted transition, so no background job is needed to flip it.
const (
	RegistrationPendingPayment = "PENDING_PAYMENT"
	RegistrationActive         = "ACTIVE"
	RegistrationCanceled       = "CANCELED"
)

// Registration is a date-ranged commitment by a member to either a
// package (gym-wide access) or a specific class (fixed-schedule
// enrollment), never both.  Class registrations contribute to the
// capacity pool of every session date inside their range.
//
// Fields:
//
//	ID           – primary key identifier.
//	MemberID     – owning member; registrations are cascade-deleted with members.
//	PackageID    – set for package registrations, nil otherwise.
//	ClassID      – set for class registrations, nil otherwise.
//	StartDate    – first covered date (inclusive).
//	EndDate      – last covered date (inclusive).
//	Status       – PENDING_PAYMENT, ACTIVE or CANCELED.
//	AmountCents  – fee computed at creation time.
//	PromotionID  – promotion applied at fee computation, if any.
//	CancelReason – reason recorded on cancellation.
type Registration struct {
	ID           uint64    // registrations.id
	MemberID     uint64    // registrations.member_id
	PackageID    *uint64   // registrations.package_id (nullable)
	ClassID      *uint64   // registrations.class_id (nullable)
	StartDate    time.Time // registrations.start_date
	EndDate      time.Time // registrations.end_date
	Status       string    // registrations.status
	AmountCents  int64     // registrations.amount_cents
	PromotionID  *uint64   // registrations.promotion_id (nullable)
	CancelReason *string   // registrations.cancel_reason (nullable)
	CreatedAt    time.Time // registrations.created_at
	UpdatedAt    time.Time // registrations.updated_at
}

// IsPackage reports whether this is a package registration.
func (r *Registration) IsPackage() bool { return r.PackageID != nil }

// IsClass reports whether this is a class enrollment.
func (r *Registration) IsClass() bool { return r.ClassID != nil }

// IsExpired reports whether an ACTIVE registration has lapsed.  The
// status field is left untouched; every "active" query must also
// filter on end date.
func (r *Registration) IsExpired(today time.Time) bool {
	return r.Status == RegistrationActive && Date(r.EndDate).Before(Date(today))
}

// IsActiveOn reports whether the registration is ACTIVE, not expired,
// and its range covers the given date.
func (r *Registration) IsActiveOn(date time.Time) bool {
	if r.Status != RegistrationActive {
		return false
	}
	return r.CoversDate(date)
}

// CoversDate reports whether date falls inside [StartDate, EndDate].
func (r *Registration) CoversDate(date time.Time) bool {
	d := Date(date)
	return !d.Before(Date(r.StartDate)) && !d.After(Date(r.EndDate))
}

// Overlaps reports whether [start, end] intersects the registration's
// own range.
func (r *Registration) Overlaps(start, end time.Time) bool {
	return !Date(end).Before(Date(r.StartDate)) && !Date(start).After(Date(r.EndDate))
}

// Activate transitions PENDING_PAYMENT to ACTIVE.  It is invoked by
// the payment gateway callback path.  Any other source state returns
// ErrNotActive (CANCELED is terminal; ACTIVE activation is a repeat).
func (r *Registration) Activate() error {
	switch r.Status {
	case RegistrationPendingPayment:
		r.Status = RegistrationActive
		return nil
	case RegistrationCanceled:
		return ErrAlreadyCanceled
	default:
		return ErrNotActive
	}
}

// Cancel transitions ACTIVE or PENDING_PAYMENT to CANCELED.  A
// non-empty reason is required and the transition is irreversible.
// Already consumed bookings are not retroactively removed.
func (r *Registration) Cancel(reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}
	switch r.Status {
	case RegistrationCanceled:
		return ErrAlreadyCanceled
	case RegistrationActive, RegistrationPendingPayment:
		r.Status = RegistrationCanceled
		r.CancelReason = &reason
		return nil
	default:
		return ErrNotActive
	}
}

// Extend adds months to the end date of an ACTIVE, non-expired
// registration.
func (r *Registration) Extend(months int, today time.Time) error {
	if r.Status != RegistrationActive || r.IsExpired(today) {
		return ErrNotActive
	}
	if months <= 0 {
		return ErrInvalidDateRange
	}
	r.EndDate = Date(r.EndDate).AddDate(0, months, 0)
	return nil
}
