package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// ErrSalaryNotFound indicates that a salary record was not located in
// the DB.
var ErrSalaryNotFound = errors.New("salary record not found")

// SalaryRepo manages persistence for monthly trainer salary records.
// Records are created only by the payroll aggregator.
type SalaryRepo struct {
	db *sql.DB
}

// NewSalaryRepo constructs a SalaryRepo bound to the given database.
func NewSalaryRepo(db *sql.DB) *SalaryRepo { return &SalaryRepo{db: db} }

const salaryColumns = `id, trainer_id, month, base_salary_cents, package_commission_cents, class_commission_cents, personal_commission_cents, performance_bonus_cents, attendance_bonus_cents, total_cents, payment_date, created_at`

func scanSalary(row interface{ Scan(...any) error }) (*model.SalaryRecord, error) {
	var s model.SalaryRecord
	var paid sql.NullTime
	if err := row.Scan(&s.ID, &s.TrainerID, &s.Month, &s.BaseSalaryCents,
		&s.PackageCommissionCents, &s.ClassCommissionCents, &s.PersonalCommissionCents,
		&s.PerformanceBonusCents, &s.AttendanceBonusCents, &s.TotalCents,
		&paid, &s.CreatedAt); err != nil {
		return nil, err
	}
	if paid.Valid {
		t := paid.Time
		s.PaymentDate = &t
	}
	return &s, nil
}

// MonthExists reports whether any salary record was already generated
// for the month.
func (r *SalaryRepo) MonthExists(ctx context.Context, month string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM salary_records WHERE month = ?)`, month).Scan(&exists)
	return exists, err
}

// Create inserts a salary record.  The UNIQUE(trainer_id, month)
// constraint backs the aggregator's idempotency: when two generations
// race past the month-exists check, the loser's insert surfaces as
// ErrAlreadyGenerated, never as a silent second row.
func (r *SalaryRepo) Create(ctx context.Context, s *model.SalaryRecord) error {
	const q = `INSERT INTO salary_records
	           (trainer_id, month, base_salary_cents, package_commission_cents, class_commission_cents,
	            personal_commission_cents, performance_bonus_cents, attendance_bonus_cents, total_cents)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.TrainerID, s.Month, s.BaseSalaryCents,
		s.PackageCommissionCents, s.ClassCommissionCents, s.PersonalCommissionCents,
		s.PerformanceBonusCents, s.AttendanceBonusCents, s.TotalCents)
	if err != nil {
		if isDuplicateKey(err) {
			return model.ErrAlreadyGenerated
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a salary record.  Returns ErrSalaryNotFound when
// there is no matching row.
func (r *SalaryRepo) GetByID(ctx context.Context, id uint64) (*model.SalaryRecord, error) {
	const q = `SELECT ` + salaryColumns + ` FROM salary_records WHERE id = ?`
	s, err := scanSalary(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSalaryNotFound
	}
	return s, err
}

// ListByMonth returns every salary record of the month ordered by
// trainer id.
func (r *SalaryRepo) ListByMonth(ctx context.Context, month string) ([]model.SalaryRecord, error) {
	const q = `SELECT ` + salaryColumns + ` FROM salary_records WHERE month = ? ORDER BY trainer_id`
	rows, err := r.db.QueryContext(ctx, q, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.SalaryRecord, 0)
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// SetPaymentDate marks a record paid.  The WHERE clause only matches
// unpaid rows, so a repeated payment reports ErrConflict and a paid
// record stays immutable.
func (r *SalaryRepo) SetPaymentDate(ctx context.Context, id uint64, when time.Time) error {
	const q = `UPDATE salary_records SET payment_date = ? WHERE id = ? AND payment_date IS NULL`
	res, err := r.db.ExecContext(ctx, q, model.Date(when).Format(model.DateLayout), id)
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
