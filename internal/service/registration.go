package service

import (
	"context"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// RegistrationDesk owns the registration lifecycle: selling package and
// class commitments, activating them on payment, and the cancel /
// extend / renew follow-ups.
type RegistrationDesk struct {
	store   CommitmentStore
	fees    *FeeEngine
	gateway PaymentGateway
	locks   *keyedMutex
}

// NewRegistrationDesk wires the desk onto its collaborators.  Desks
// share the process-wide lock registry so enrollment sections exclude
// the booking coordinator's.
func NewRegistrationDesk(store CommitmentStore, fees *FeeEngine, gateway PaymentGateway) *RegistrationDesk {
	return &RegistrationDesk{store: store, fees: fees, gateway: gateway, locks: commitmentLocks}
}

// RegistrationOutcome pairs the created registration with the payment
// reference the member settles against.  PaymentRef is empty when the
// fee was zero and the registration activated immediately.
type RegistrationOutcome struct {
	Registration *model.Registration
	PaymentRef   string
}

// RegisterPackage sells a package commitment starting today.  The
// duplicate check and the insert run under a per-member serialization
// point, so two concurrent purchases by the same member cannot both
// pass the active-package guard.
func (d *RegistrationDesk) RegisterPackage(ctx context.Context, memberID, packageID uint64, months int, promoCode *string) (*RegistrationOutcome, error) {
	today := model.Today()
	fee, err := d.fees.ComputeFee(ctx, FeeInput{
		PackageID:      &packageID,
		DurationMonths: months,
		PromotionCode:  promoCode,
	}, today)
	if err != nil {
		return nil, err
	}

	start := today
	end := start.AddDate(0, months, 0).AddDate(0, 0, -1)

	unlock := d.locks.Lock(memberLockKey(memberID))
	defer unlock()

	reg := &model.Registration{
		MemberID:    memberID,
		PackageID:   &packageID,
		StartDate:   start,
		EndDate:     end,
		AmountCents: fee.FinalCents,
		PromotionID: fee.PromotionID,
		Status:      model.RegistrationPendingPayment,
	}
	err = d.store.Atomically(ctx, func(tx CommitmentTx) error {
		active, err := tx.HasActivePackage(ctx, memberID, today)
		if err != nil {
			return err
		}
		if active {
			return model.ErrDuplicateActivePackage
		}
		if fee.FinalCents == 0 {
			reg.Status = model.RegistrationActive
		}
		return tx.InsertRegistration(ctx, reg)
	})
	if err != nil {
		return nil, err
	}
	return d.collectPayment(ctx, reg, fee.FinalCents)
}

// RegisterClass enrolls the member for every session of the class in
// [startDate, startDate+months).  Serialized per class so concurrent
// enrollments see each other's standing seats.
func (d *RegistrationDesk) RegisterClass(ctx context.Context, memberID, classID uint64, startDate time.Time, months int, promoCode *string) (*RegistrationOutcome, error) {
	today := model.Today()
	if months <= 0 {
		return nil, model.ErrInvalidDateRange
	}
	if !startDate.After(today) {
		return nil, model.ErrEnrollmentClosed
	}

	class, err := d.store.Class(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !class.IsOpen() {
		return nil, model.ErrNotActive
	}

	fee, err := d.fees.ComputeFee(ctx, FeeInput{
		ClassID:        &classID,
		DurationMonths: months,
		PromotionCode:  promoCode,
	}, today)
	if err != nil {
		return nil, err
	}

	end := startDate.AddDate(0, months, 0).AddDate(0, 0, -1)

	unlock := d.locks.Lock(classLockKey(classID))
	defer unlock()

	reg := &model.Registration{
		MemberID:    memberID,
		ClassID:     &classID,
		StartDate:   startDate,
		EndDate:     end,
		AmountCents: fee.FinalCents,
		PromotionID: fee.PromotionID,
		Status:      model.RegistrationPendingPayment,
	}
	err = d.store.Atomically(ctx, func(tx CommitmentTx) error {
		overlap, err := tx.HasOverlappingClass(ctx, memberID, classID, startDate, end)
		if err != nil {
			return err
		}
		if overlap {
			return model.ErrDuplicateClassRegistration
		}

		// The enrollment claims a standing seat in every session
		// of the window; one full date sinks the whole purchase.
		for _, date := range class.SessionDates(startDate, end) {
			occ, err := tx.Occupancy(ctx, classID, date)
			if err != nil {
				return err
			}
			if occ.IsFull() {
				return model.ErrClassFull
			}
		}

		if fee.FinalCents == 0 {
			reg.Status = model.RegistrationActive
		}
		return tx.InsertRegistration(ctx, reg)
	})
	if err != nil {
		return nil, err
	}
	return d.collectPayment(ctx, reg, fee.FinalCents)
}

// collectPayment opens a pending payment for a non-zero fee.  Zero
// fees were already activated inside the sale transaction.
func (d *RegistrationDesk) collectPayment(ctx context.Context, reg *model.Registration, amountCents int64) (*RegistrationOutcome, error) {
	out := &RegistrationOutcome{Registration: reg}
	if amountCents == 0 {
		return out, nil
	}
	ref, err := d.gateway.CreatePendingPayment(ctx, reg.ID, amountCents)
	if err != nil {
		return nil, err
	}
	out.PaymentRef = ref
	return out, nil
}

// ActivateOnPayment flips a registration to ACTIVE when the gateway
// confirms settlement.  A pending registration holds no seat, so the
// sale-time invariants are verified again here, under the same
// serialization point and transaction as the status flip: a settled
// class enrollment must still find room in every remaining session,
// and a settled package must still be the member's only active one.
// The guarded update makes the callback idempotent under retries: a
// second delivery finds no PENDING row and surfaces the state
// machine's sentinel instead of double activating.
func (d *RegistrationDesk) ActivateOnPayment(ctx context.Context, registrationID uint64) (*model.Registration, error) {
	reg, err := d.store.Registration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if err := reg.Activate(); err != nil {
		return nil, err
	}
	today := model.Today()

	if reg.IsClass() {
		class, err := d.store.Class(ctx, *reg.ClassID)
		if err != nil {
			return nil, err
		}
		unlock := d.locks.Lock(classLockKey(*reg.ClassID))
		defer unlock()

		err = d.store.Atomically(ctx, func(tx CommitmentTx) error {
			from := reg.StartDate
			if today.After(from) {
				from = today
			}
			for _, date := range class.SessionDates(from, reg.EndDate) {
				occ, err := tx.Occupancy(ctx, *reg.ClassID, date)
				if err != nil {
					return err
				}
				if occ.IsFull() {
					return model.ErrClassFull
				}
			}
			return tx.UpdateRegistrationStatus(ctx, reg.ID, model.RegistrationPendingPayment, model.RegistrationActive, nil)
		})
		if err != nil {
			return nil, err
		}
		return reg, nil
	}

	unlock := d.locks.Lock(memberLockKey(reg.MemberID))
	defer unlock()

	err = d.store.Atomically(ctx, func(tx CommitmentTx) error {
		active, err := tx.HasActivePackage(ctx, reg.MemberID, today)
		if err != nil {
			return err
		}
		if active {
			return model.ErrDuplicateActivePackage
		}
		return tx.UpdateRegistrationStatus(ctx, reg.ID, model.RegistrationPendingPayment, model.RegistrationActive, nil)
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// CancelRegistration cancels an ACTIVE or PENDING_PAYMENT registration.
// The reason is mandatory and the transition is irreversible.
func (d *RegistrationDesk) CancelRegistration(ctx context.Context, memberID, registrationID uint64, reason string) (*model.Registration, error) {
	reg, err := d.store.Registration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.MemberID != memberID {
		return nil, ErrForbidden
	}
	from := reg.Status
	if err := reg.Cancel(reason); err != nil {
		return nil, err
	}
	if err := d.store.UpdateRegistrationStatus(ctx, registrationID, from, model.RegistrationCanceled, &reason); err != nil {
		return nil, err
	}
	return reg, nil
}

// ExtendRegistration pushes an ACTIVE, non-expired registration's end
// date out by whole months.  Class extensions re-check capacity for
// the added session dates under the class serialization point.
func (d *RegistrationDesk) ExtendRegistration(ctx context.Context, memberID, registrationID uint64, months int) (*model.Registration, error) {
	today := model.Today()
	reg, err := d.store.Registration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.MemberID != memberID {
		return nil, ErrForbidden
	}

	oldEnd := reg.EndDate
	if err := reg.Extend(months, today); err != nil {
		return nil, err
	}

	if reg.IsClass() {
		class, err := d.store.Class(ctx, *reg.ClassID)
		if err != nil {
			return nil, err
		}
		unlock := d.locks.Lock(classLockKey(*reg.ClassID))
		defer unlock()

		err = d.store.Atomically(ctx, func(tx CommitmentTx) error {
			for _, date := range class.SessionDates(oldEnd.AddDate(0, 0, 1), reg.EndDate) {
				occ, err := tx.Occupancy(ctx, *reg.ClassID, date)
				if err != nil {
					return err
				}
				if occ.IsFull() {
					return model.ErrClassFull
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if err := d.store.UpdateRegistrationEndDate(ctx, registrationID, reg.EndDate); err != nil {
		return nil, err
	}
	return reg, nil
}

// RenewRegistration sells a fresh registration for the same product,
// starting the day after the current one ends.  The fee is recomputed
// from the catalog's current prices; the old amount is never reused.
func (d *RegistrationDesk) RenewRegistration(ctx context.Context, memberID, registrationID uint64, months int, promoCode *string) (*RegistrationOutcome, error) {
	reg, err := d.store.Registration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.MemberID != memberID {
		return nil, ErrForbidden
	}
	if reg.Status != model.RegistrationActive {
		return nil, model.ErrNotActive
	}

	if reg.IsClass() {
		start := reg.EndDate.AddDate(0, 0, 1)
		if !start.After(model.Today()) {
			start = model.Today().AddDate(0, 0, 1)
		}
		return d.RegisterClass(ctx, memberID, *reg.ClassID, start, months, promoCode)
	}
	return d.RegisterPackage(ctx, memberID, *reg.PackageID, months, promoCode)
}

// MemberRegistrations is a thin read-through kept on the desk so
// handlers depend on one surface.
func (d *RegistrationDesk) MemberRegistrations(ctx context.Context, memberID uint64) ([]model.Registration, error) {
	return d.store.RegistrationsByMember(ctx, memberID)
}
