package model

import "time"

// Booking statuses.  CANCELED and ATTENDED are terminal.
const (
	BookingBooked   = "BOOKED"
	BookingCanceled = "CANCELED"
	BookingAttended = "ATTENDED"
)

// Booking is a single-date reservation of a member into a class
// session.  Unlike a class Registration, which commits every matching
// weekday of a date range, a Booking commits exactly one date.  Both
// draw from the same capacity pool for the (class, date) pair.
//
// Fields:
//
//	ID        – primary key identifier.
//	MemberID  – owning member; bookings are cascade-deleted with members.
//	ClassID   – class being booked.
//	Date      – the single session date committed.
//	Status    – BOOKED, CANCELED or ATTENDED.
//	Note      – optional free-text note from the member.
type Booking struct {
	ID        uint64    // bookings.id
	MemberID  uint64    // bookings.member_id
	ClassID   uint64    // bookings.class_id
	Date      time.Time // bookings.book_date
	Status    string    // bookings.status
	Note      *string   // bookings.note (nullable)
	CreatedAt time.Time // bookings.created_at
	UpdatedAt time.Time // bookings.updated_at
}

// Cancel transitions BOOKED to CANCELED.  Terminal states stay put:
// a second cancel reports ErrAlreadyCanceled, an attended booking
// reports ErrNotActive.  Releasing a seat needs no serialization: a
// release can never oversell.
func (b *Booking) Cancel() error {
	switch b.Status {
	case BookingBooked:
		b.Status = BookingCanceled
		return nil
	case BookingCanceled:
		return ErrAlreadyCanceled
	default:
		return ErrNotActive
	}
}

// MarkAttended transitions BOOKED to ATTENDED.  Only allowed for the
// booking's own date, with no retroactive attendance marking.  Used both
// by self check-in and by front-desk pay-and-check-in flows.
func (b *Booking) MarkAttended(today time.Time) error {
	switch b.Status {
	case BookingCanceled:
		return ErrAlreadyCanceled
	case BookingAttended:
		return ErrNotActive
	}
	if !SameDate(b.Date, today) {
		return ErrNotActive
	}
	b.Status = BookingAttended
	return nil
}
