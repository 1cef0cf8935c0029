package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/service"
)

// Store binds the individual repositories into the storage surfaces
// the service layer consumes.  One Store per process, sharing one
// *sql.DB pool.
type Store struct {
	db            *sql.DB
	Classes       *ClassRepo
	Packages      *PackageRepo
	Promotions    *PromotionRepo
	Bookings      *BookingRepo
	Registrations *RegistrationRepo
	Occupancy     *OccupancyRepo
	Trainers      *TrainerRepo
	Members       *MemberRepo
	Personal      *PersonalTrainingRepo
	Salaries      *SalaryRepo
}

// NewStore wires every repository onto the shared pool.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:            db,
		Classes:       NewClassRepo(db),
		Packages:      NewPackageRepo(db),
		Promotions:    NewPromotionRepo(db),
		Bookings:      NewBookingRepo(db),
		Registrations: NewRegistrationRepo(db),
		Occupancy:     NewOccupancyRepo(db),
		Trainers:      NewTrainerRepo(db),
		Members:       NewMemberRepo(db),
		Personal:      NewPersonalTrainingRepo(db),
		Salaries:      NewSalaryRepo(db),
	}
}

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// storeTx adapts one open *sql.Tx to the service transaction view.
type storeTx struct {
	store *Store
	tx    *sql.Tx
}

// Atomically runs fn inside a database transaction and commits only
// when fn returns nil.
func (s *Store) Atomically(ctx context.Context, fn func(tx service.CommitmentTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&storeTx{store: s, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (t *storeTx) Occupancy(ctx context.Context, classID uint64, date time.Time) (model.Occupancy, error) {
	return t.store.Occupancy.ForClassDateTx(ctx, t.tx, classID, date)
}

func (t *storeTx) HasBooked(ctx context.Context, memberID, classID uint64, date time.Time) (bool, error) {
	return t.store.Bookings.HasBookedTx(ctx, t.tx, memberID, classID, date)
}

func (t *storeTx) EnrollmentCovers(ctx context.Context, memberID, classID uint64, date time.Time) (bool, error) {
	return t.store.Registrations.HasActiveClassCoverTx(ctx, t.tx, memberID, classID, date)
}

func (t *storeTx) HasActivePackage(ctx context.Context, memberID uint64, today time.Time) (bool, error) {
	return t.store.Registrations.HasActivePackageTx(ctx, t.tx, memberID, today)
}

func (t *storeTx) HasOverlappingClass(ctx context.Context, memberID, classID uint64, start, end time.Time) (bool, error) {
	return t.store.Registrations.HasOverlappingClassTx(ctx, t.tx, memberID, classID, start, end)
}

func (t *storeTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	return t.store.Bookings.CreateTx(ctx, t.tx, b)
}

func (t *storeTx) InsertRegistration(ctx context.Context, g *model.Registration) error {
	return t.store.Registrations.CreateTx(ctx, t.tx, g)
}

func (t *storeTx) UpdateRegistrationStatus(ctx context.Context, id uint64, from, to string, reason *string) error {
	return t.store.Registrations.UpdateStatusTx(ctx, t.tx, id, from, to, reason)
}

// CommitmentStore surface.

func (s *Store) Class(ctx context.Context, classID uint64) (*model.Class, error) {
	return s.Classes.GetByID(ctx, classID)
}

func (s *Store) Package(ctx context.Context, packageID uint64) (*model.Package, error) {
	return s.Packages.GetByID(ctx, packageID)
}

func (s *Store) PromotionByCode(ctx context.Context, code string) (*model.Promotion, error) {
	return s.Promotions.GetByCode(ctx, code)
}

func (s *Store) Booking(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.Bookings.GetByID(ctx, id)
}

func (s *Store) Registration(ctx context.Context, id uint64) (*model.Registration, error) {
	return s.Registrations.GetByID(ctx, id)
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id uint64, from, to string) error {
	return s.Bookings.UpdateStatus(ctx, id, from, to)
}

func (s *Store) UpdateRegistrationStatus(ctx context.Context, id uint64, from, to string, reason *string) error {
	return s.Registrations.UpdateStatus(ctx, id, from, to, reason)
}

func (s *Store) UpdateRegistrationEndDate(ctx context.Context, id uint64, end time.Time) error {
	return s.Registrations.UpdateEndDate(ctx, id, end)
}

func (s *Store) RegistrationsByMember(ctx context.Context, memberID uint64) ([]model.Registration, error) {
	return s.Registrations.ListByMember(ctx, memberID)
}

func (s *Store) ExpiringRegistrations(ctx context.Context, from, to time.Time) ([]model.Registration, error) {
	return s.Registrations.ListExpiring(ctx, from, to)
}

// PayrollStore surface.

func (s *Store) ActiveTrainers(ctx context.Context) ([]model.Trainer, error) {
	return s.Trainers.ListActive(ctx)
}

func (s *Store) SalaryMonthExists(ctx context.Context, month string) (bool, error) {
	return s.Salaries.MonthExists(ctx, month)
}

func (s *Store) InsertSalary(ctx context.Context, rec *model.SalaryRecord) error {
	return s.Salaries.Create(ctx, rec)
}

func (s *Store) Salary(ctx context.Context, id uint64) (*model.SalaryRecord, error) {
	return s.Salaries.GetByID(ctx, id)
}

func (s *Store) SalariesByMonth(ctx context.Context, month string) ([]model.SalaryRecord, error) {
	return s.Salaries.ListByMonth(ctx, month)
}

func (s *Store) SetSalaryPaid(ctx context.Context, id uint64, when time.Time) error {
	return s.Salaries.SetPaymentDate(ctx, id, when)
}

// CommissionSource surface.

func (s *Store) PackageRevenue(ctx context.Context, trainerID uint64, from, to time.Time) (int64, error) {
	return s.Registrations.PackageRevenueByTrainer(ctx, trainerID, from, to)
}

func (s *Store) SessionsTaught(ctx context.Context, trainerID uint64, from, to time.Time) (int, error) {
	return s.Bookings.SessionDatesTaughtByTrainer(ctx, trainerID, from, to)
}

func (s *Store) DistinctStudents(ctx context.Context, trainerID uint64, from, to time.Time) (int, error) {
	return s.Bookings.DistinctStudentsByTrainer(ctx, trainerID, from, to)
}

func (s *Store) Attendance(ctx context.Context, trainerID uint64, from, to time.Time) (total, attended int, err error) {
	return s.Bookings.CountAttendanceByTrainer(ctx, trainerID, from, to)
}

func (s *Store) PersonalTrainingRevenue(ctx context.Context, trainerID uint64, from, to time.Time) (int64, error) {
	return s.Personal.CompletedRevenueByTrainer(ctx, trainerID, from, to)
}

var (
	_ service.CommitmentStore  = (*Store)(nil)
	_ service.PromotionLookup  = (*Store)(nil)
	_ service.PayrollStore     = (*Store)(nil)
	_ service.CommissionSource = (*Store)(nil)
)
