package service

import (
	"context"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// Catalog looks up the products a member can commit to.  Implemented
// by the repository layer and by in-memory fakes in tests.
type Catalog interface {
	Class(ctx context.Context, classID uint64) (*model.Class, error)
	Package(ctx context.Context, packageID uint64) (*model.Package, error)
}

// PromotionLookup resolves a promotion code to its record.  Validity
// is judged by the fee engine.
type PromotionLookup interface {
	PromotionByCode(ctx context.Context, code string) (*model.Promotion, error)
}

// CommitmentTx is the view of storage available inside a serialized
// capacity section.  All reads observe the same consistent snapshot
// that the insert will join.
type CommitmentTx interface {
	// Occupancy aggregates BOOKED bookings and covering ACTIVE
	// registrations for the class on the date.
	Occupancy(ctx context.Context, classID uint64, date time.Time) (model.Occupancy, error)

	// HasBooked reports an existing BOOKED booking for
	// (member, class, date).
	HasBooked(ctx context.Context, memberID, classID uint64, date time.Time) (bool, error)

	// EnrollmentCovers reports an ACTIVE class enrollment of the
	// member whose range contains the date.
	EnrollmentCovers(ctx context.Context, memberID, classID uint64, date time.Time) (bool, error)

	// HasActivePackage reports an ACTIVE, non-expired package
	// registration for the member.
	HasActivePackage(ctx context.Context, memberID uint64, today time.Time) (bool, error)

	// HasOverlappingClass reports an ACTIVE registration of the
	// member for the class overlapping [start, end].
	HasOverlappingClass(ctx context.Context, memberID, classID uint64, start, end time.Time) (bool, error)

	// InsertBooking persists a new BOOKED booking.
	InsertBooking(ctx context.Context, b *model.Booking) error

	// InsertRegistration persists a new registration.
	InsertRegistration(ctx context.Context, g *model.Registration) error

	// UpdateRegistrationStatus persists a guarded state transition
	// inside the section, so activation and its invariant re-checks
	// commit or roll back together.
	UpdateRegistrationStatus(ctx context.Context, id uint64, from, to string, reason *string) error
}

// CommitmentStore opens serialized sections and serves the
// non-serialized lookups of the booking and registration paths.
type CommitmentStore interface {
	Catalog

	// Atomically runs fn inside one storage transaction.  fn is
	// invoked at most once; a non-nil return rolls everything back.
	Atomically(ctx context.Context, fn func(tx CommitmentTx) error) error

	// Booking and Registration fetch single rows for the cancel,
	// attend, extend and renew paths.
	Booking(ctx context.Context, id uint64) (*model.Booking, error)
	Registration(ctx context.Context, id uint64) (*model.Registration, error)

	// UpdateBookingStatus / UpdateRegistrationStatus persist state
	// machine transitions, guarded on the expected source status.
	UpdateBookingStatus(ctx context.Context, id uint64, from, to string) error
	UpdateRegistrationStatus(ctx context.Context, id uint64, from, to string, reason *string) error

	// UpdateRegistrationEndDate persists an extension.
	UpdateRegistrationEndDate(ctx context.Context, id uint64, end time.Time) error

	// RegistrationsByMember lists a member's registrations, newest
	// first.
	RegistrationsByMember(ctx context.Context, memberID uint64) ([]model.Registration, error)
}

// PayrollStore serves the payroll aggregator's record lifecycle.
type PayrollStore interface {
	ActiveTrainers(ctx context.Context) ([]model.Trainer, error)
	SalaryMonthExists(ctx context.Context, month string) (bool, error)
	InsertSalary(ctx context.Context, s *model.SalaryRecord) error
	Salary(ctx context.Context, id uint64) (*model.SalaryRecord, error)
	SalariesByMonth(ctx context.Context, month string) ([]model.SalaryRecord, error)
	SetSalaryPaid(ctx context.Context, id uint64, when time.Time) error
}

// CommissionSource supplies the per-trainer activity figures behind
// each commission component.  Every figure is read independently so
// components stay individually auditable.
type CommissionSource interface {
	PackageRevenue(ctx context.Context, trainerID uint64, from, to time.Time) (int64, error)
	SessionsTaught(ctx context.Context, trainerID uint64, from, to time.Time) (int, error)
	DistinctStudents(ctx context.Context, trainerID uint64, from, to time.Time) (int, error)
	Attendance(ctx context.Context, trainerID uint64, from, to time.Time) (total, attended int, err error)
	PersonalTrainingRevenue(ctx context.Context, trainerID uint64, from, to time.Time) (int64, error)
}

// PaymentGateway is the outbound adapter to the payment provider.
// The gateway's asynchronous callback later re-enters through the
// registration activation transition.
type PaymentGateway interface {
	CreatePendingPayment(ctx context.Context, registrationID uint64, amountCents int64) (paymentRef string, err error)
}
