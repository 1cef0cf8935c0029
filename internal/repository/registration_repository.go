package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// ErrRegistrationNotFound indicates that a registration was not
// located in the DB.
var ErrRegistrationNotFound = errors.New("registration not found")

// RegistrationRepo manages persistence for date-ranged commitments:
// package subscriptions and fixed-schedule class enrollments.
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo constructs a RegistrationRepo bound to the given
// database.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// DB exposes the underlying sql.DB for transaction control.
func (r *RegistrationRepo) DB() *sql.DB { return r.db }

const registrationColumns = `id, member_id, package_id, class_id, start_date, end_date, status, amount_cents, promotion_id, cancel_reason, created_at, updated_at`

func scanRegistration(row interface{ Scan(...any) error }) (*model.Registration, error) {
	var g model.Registration
	var pkgID, classID, promoID sql.NullInt64
	var reason sql.NullString
	if err := row.Scan(&g.ID, &g.MemberID, &pkgID, &classID, &g.StartDate, &g.EndDate,
		&g.Status, &g.AmountCents, &promoID, &reason, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	if pkgID.Valid {
		v := uint64(pkgID.Int64)
		g.PackageID = &v
	}
	if classID.Valid {
		v := uint64(classID.Int64)
		g.ClassID = &v
	}
	if promoID.Valid {
		v := uint64(promoID.Int64)
		g.PromotionID = &v
	}
	if reason.Valid {
		s := reason.String
		g.CancelReason = &s
	}
	return &g, nil
}

// CreateTx inserts a new registration within the caller's transaction
// and populates the generated ID and DB-default fields.  Exactly one
// of PackageID/ClassID must be set; the schema enforces this with a
// CHECK constraint as well.
func (r *RegistrationRepo) CreateTx(ctx context.Context, tx *sql.Tx, g *model.Registration) error {
	const q = `INSERT INTO registrations (member_id, package_id, class_id, start_date, end_date, status, amount_cents, promotion_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var pkgID, classID, promoID any
	if g.PackageID != nil {
		pkgID = *g.PackageID
	}
	if g.ClassID != nil {
		classID = *g.ClassID
	}
	if g.PromotionID != nil {
		promoID = *g.PromotionID
	}
	res, err := tx.ExecContext(ctx, q, g.MemberID, pkgID, classID,
		model.Date(g.StartDate).Format(model.DateLayout), model.Date(g.EndDate).Format(model.DateLayout),
		g.Status, g.AmountCents, promoID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	const sel = `SELECT ` + registrationColumns + ` FROM registrations WHERE id = ?`
	got, err := scanRegistration(tx.QueryRowContext(ctx, sel, g.ID))
	if err != nil {
		return err
	}
	*g = *got
	return nil
}

// GetByID retrieves a registration by its ID.  Returns
// ErrRegistrationNotFound when there is no matching row.
func (r *RegistrationRepo) GetByID(ctx context.Context, id uint64) (*model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations WHERE id = ?`
	g, err := scanRegistration(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	return g, err
}

// HasActivePackageTx reports whether the member holds an ACTIVE,
// non-expired package registration, inside the caller's transaction.
// The member invariant check and the insert must share a transaction
// so two concurrent package purchases cannot both pass.
func (r *RegistrationRepo) HasActivePackageTx(ctx context.Context, tx *sql.Tx, memberID uint64, today time.Time) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM registrations
	           WHERE member_id = ? AND package_id IS NOT NULL
	             AND status = 'ACTIVE' AND end_date >= ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, memberID, model.Date(today).Format(model.DateLayout)).Scan(&exists)
	return exists, err
}

// HasOverlappingClassTx reports whether the member holds an ACTIVE
// registration for the same class overlapping [start, end].
func (r *RegistrationRepo) HasOverlappingClassTx(ctx context.Context, tx *sql.Tx, memberID, classID uint64, start, end time.Time) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM registrations
	           WHERE member_id = ? AND class_id = ? AND status = 'ACTIVE'
	             AND start_date <= ? AND end_date >= ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, memberID, classID,
		model.Date(end).Format(model.DateLayout), model.Date(start).Format(model.DateLayout)).Scan(&exists)
	return exists, err
}

// HasActiveClassCoverTx reports whether the member's ACTIVE class
// enrollment already covers the given date.  The booking coordinator
// uses this to reject single-session bookings by members enrolled for
// the whole cohort.
func (r *RegistrationRepo) HasActiveClassCoverTx(ctx context.Context, tx *sql.Tx, memberID, classID uint64, date time.Time) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM registrations
	           WHERE member_id = ? AND class_id = ? AND status = 'ACTIVE'
	             AND start_date <= ? AND end_date >= ?)`
	d := model.Date(date).Format(model.DateLayout)
	var exists bool
	err := tx.QueryRowContext(ctx, q, memberID, classID, d, d).Scan(&exists)
	return exists, err
}

// UpdateStatus persists a state transition, re-checking the expected
// source status in the WHERE clause.  A lost race surfaces as
// ErrConflict.  The cancel reason is written only when provided.
func (r *RegistrationRepo) UpdateStatus(ctx context.Context, id uint64, from, to string, reason *string) error {
	return updateRegistrationStatus(ctx, r.db, id, from, to, reason)
}

// UpdateStatusTx is UpdateStatus within the caller's transaction.  The
// activation path runs its invariant re-checks and the PENDING→ACTIVE
// flip in one transaction through this method.
func (r *RegistrationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string, reason *string) error {
	return updateRegistrationStatus(ctx, tx, id, from, to, reason)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateRegistrationStatus(ctx context.Context, ex execer, id uint64, from, to string, reason *string) error {
	const q = `UPDATE registrations SET status = ?, cancel_reason = COALESCE(?, cancel_reason) WHERE id = ? AND status = ?`
	var rs any
	if reason != nil {
		rs = *reason
	}
	res, err := ex.ExecContext(ctx, q, to, rs, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// UpdateEndDate persists an extension of an ACTIVE registration.
func (r *RegistrationRepo) UpdateEndDate(ctx context.Context, id uint64, end time.Time) error {
	const q = `UPDATE registrations SET end_date = ? WHERE id = ? AND status = 'ACTIVE'`
	res, err := r.db.ExecContext(ctx, q, model.Date(end).Format(model.DateLayout), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ListByMember returns the member's registrations newest first.
func (r *RegistrationRepo) ListByMember(ctx context.Context, memberID uint64) ([]model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations WHERE member_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Registration, 0)
	for rows.Next() {
		g, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

// ListExpiring returns ACTIVE registrations whose end_date falls in
// [from, to], oldest end first.  Feeds the expiry reminder sweep.
func (r *RegistrationRepo) ListExpiring(ctx context.Context, from, to time.Time) ([]model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations
	           WHERE status = 'ACTIVE' AND end_date >= ? AND end_date <= ?
	           ORDER BY end_date ASC`
	rows, err := r.db.QueryContext(ctx, q,
		model.Date(from).Format(model.DateLayout), model.Date(to).Format(model.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Registration, 0)
	for rows.Next() {
		g, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

// PackageRevenueByTrainer sums the amount of ACTIVE or completed
// package registrations, within [from, to] by creation date, for
// members who attended at least one of the trainer's classes in the
// same window.  Feeds the package commission component.
func (r *RegistrationRepo) PackageRevenueByTrainer(ctx context.Context, trainerID uint64, from, to time.Time) (int64, error) {
	const q = `SELECT COALESCE(SUM(g.amount_cents), 0)
	           FROM registrations g
	           WHERE g.package_id IS NOT NULL
	             AND g.status = 'ACTIVE'
	             AND g.created_at >= ? AND g.created_at < DATE_ADD(?, INTERVAL 1 DAY)
	             AND EXISTS (
	               SELECT 1 FROM bookings b
	               JOIN classes c ON c.id = b.class_id
	               WHERE b.member_id = g.member_id AND c.trainer_id = ?
	                 AND b.status = 'ATTENDED'
	                 AND b.book_date >= ? AND b.book_date <= ?)`
	fromS := model.Date(from).Format(model.DateLayout)
	toS := model.Date(to).Format(model.DateLayout)
	var cents int64
	err := r.db.QueryRowContext(ctx, q, fromS, toS, trainerID, fromS, toS).Scan(&cents)
	return cents, err
}
