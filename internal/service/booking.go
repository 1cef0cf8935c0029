package service

import (
	"context"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// BookingCoordinator owns the session booking lifecycle: creating a
// seat on a class/date pool, canceling it and marking attendance.
type BookingCoordinator struct {
	store CommitmentStore
	locks *keyedMutex
}

// NewBookingCoordinator wires the coordinator onto a store.  All
// coordinators share the process-wide lock registry so their sections
// exclude the registration desk's.
func NewBookingCoordinator(store CommitmentStore) *BookingCoordinator {
	return &BookingCoordinator{store: store, locks: commitmentLocks}
}

// BookClass reserves one seat for the member on the class session at
// the given date.  The capacity check and the insert run holding the
// class key shared and the session key exclusively: bookings for the
// same session serialize with each other, bookings for different
// dates stay concurrent, and any enrollment of the class (which holds
// the class key exclusively) excludes them all.
func (c *BookingCoordinator) BookClass(ctx context.Context, memberID, classID uint64, date time.Time, note *string) (*model.Booking, error) {
	class, err := c.store.Class(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !class.IsOpen() {
		return nil, model.ErrNotActive
	}
	if !class.RunsOn(date) {
		return nil, model.ErrInvalidDateRange
	}

	release := c.locks.RLock(classLockKey(classID))
	defer release()
	unlock := c.locks.Lock(sessionLockKey(classID, date))
	defer unlock()

	var booking *model.Booking
	err = c.store.Atomically(ctx, func(tx CommitmentTx) error {
		occ, err := tx.Occupancy(ctx, classID, date)
		if err != nil {
			return err
		}
		if occ.IsFull() {
			return model.ErrClassFull
		}

		booked, err := tx.HasBooked(ctx, memberID, classID, date)
		if err != nil {
			return err
		}
		if booked {
			return model.ErrDuplicateBooking
		}

		// An enrolled member already holds a standing seat for
		// every covered session; a second booking would double
		// count them against capacity.
		covered, err := tx.EnrollmentCovers(ctx, memberID, classID, date)
		if err != nil {
			return err
		}
		if covered {
			return model.ErrDuplicateBooking
		}

		booking = &model.Booking{
			MemberID: memberID,
			ClassID:  classID,
			Date:     date,
			Status:   model.BookingBooked,
			Note:     note,
		}
		return tx.InsertBooking(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking releases the member's seat.  The transition is guarded
// by the booking state machine, so canceling twice or canceling an
// attended booking surfaces the matching sentinel.
func (c *BookingCoordinator) CancelBooking(ctx context.Context, memberID, bookingID uint64) (*model.Booking, error) {
	booking, err := c.store.Booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.MemberID != memberID {
		return nil, ErrForbidden
	}
	if err := booking.Cancel(); err != nil {
		return nil, err
	}
	if err := c.store.UpdateBookingStatus(ctx, bookingID, model.BookingBooked, model.BookingCanceled); err != nil {
		return nil, err
	}
	return booking, nil
}

// MarkAttended records that the member showed up.  Only a BOOKED
// booking whose date is today can transition.  Self check-in is
// limited to the booking's owner; frontDesk lifts the ownership check
// for staff recording attendance on a member's behalf.
func (c *BookingCoordinator) MarkAttended(ctx context.Context, callerID, bookingID uint64, today time.Time, frontDesk bool) (*model.Booking, error) {
	booking, err := c.store.Booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.MemberID != callerID && !frontDesk {
		return nil, ErrForbidden
	}
	if err := booking.MarkAttended(today); err != nil {
		return nil, err
	}
	if err := c.store.UpdateBookingStatus(ctx, bookingID, model.BookingBooked, model.BookingAttended); err != nil {
		return nil, err
	}
	return booking, nil
}

// Availability reports the live occupancy of the class session on the
// given date without taking the serialization lock; readers tolerate
// slightly stale counts.
func (c *BookingCoordinator) Availability(ctx context.Context, classID uint64, date time.Time) (model.Occupancy, error) {
	class, err := c.store.Class(ctx, classID)
	if err != nil {
		return model.Occupancy{}, err
	}
	if !class.RunsOn(date) {
		return model.Occupancy{}, model.ErrInvalidDateRange
	}

	var occ model.Occupancy
	err = c.store.Atomically(ctx, func(tx CommitmentTx) error {
		var err error
		occ, err = tx.Occupancy(ctx, classID, date)
		return err
	})
	return occ, err
}
