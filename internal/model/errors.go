// Package model defines the domain entities of the gym service along
// with their state machines and the error kinds that represent expected
// business outcomes.  These sentinels are returned as values (never
// panics) so that handlers can translate them into user-facing
// responses with errors.Is, while genuine infrastructure failures are
// wrapped and propagated separately.
package model

import "errors"

// Capacity errors.
var (
	// ErrClassFull signals that a class has no seat left for the
	// requested date or enrollment window.
	ErrClassFull = errors.New("class is full")

	// ErrDuplicateBooking signals that the member already holds a
	// BOOKED booking (or an enrollment covering the date) for the
	// same class and date.
	ErrDuplicateBooking = errors.New("duplicate booking")

	// ErrDuplicateClassRegistration signals an overlapping ACTIVE
	// registration for the same class.
	ErrDuplicateClassRegistration = errors.New("duplicate class registration")
)

// State errors.
var (
	// ErrAlreadyCanceled signals a repeated cancellation of a
	// terminal booking or registration.
	ErrAlreadyCanceled = errors.New("already canceled")

	// ErrNotActive signals a transition attempted from a state that
	// does not permit it.
	ErrNotActive = errors.New("not active")

	// ErrAlreadyPaid signals a payment transition on a salary record
	// that already has a payment date.
	ErrAlreadyPaid = errors.New("salary already paid")

	// ErrAlreadyGenerated signals a repeated payroll generation for
	// a month that already has records.
	ErrAlreadyGenerated = errors.New("payroll already generated for month")

	// ErrEnrollmentClosed signals a class registration whose cohort
	// has already started.
	ErrEnrollmentClosed = errors.New("enrollment closed")
)

// Business-rule errors.
var (
	// ErrDuplicateActivePackage signals that the member already has
	// an active, non-expired package registration.
	ErrDuplicateActivePackage = errors.New("member already has an active package")

	// ErrInvalidPromotion signals an unknown, inactive or out-of-window
	// promotion code.  Callers must surface this instead of silently
	// charging the full price.
	ErrInvalidPromotion = errors.New("invalid promotion code")
)

// Validation errors shared by the state machines.
var (
	// ErrReasonRequired signals a cancellation without a reason.
	ErrReasonRequired = errors.New("cancellation reason required")

	// ErrInvalidDateRange signals a registration range whose end
	// precedes its start.
	ErrInvalidDateRange = errors.New("end date before start date")
)
