package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// PersonalTrainingRepo manages one-on-one training sessions.  Only the
// pieces the payroll aggregator needs are exposed; session scheduling
// itself is a plain CRUD concern.
type PersonalTrainingRepo struct {
	db *sql.DB
}

// NewPersonalTrainingRepo constructs a PersonalTrainingRepo bound to
// the given database.
func NewPersonalTrainingRepo(db *sql.DB) *PersonalTrainingRepo {
	return &PersonalTrainingRepo{db: db}
}

// Create inserts a SCHEDULED session and populates the generated ID.
func (r *PersonalTrainingRepo) Create(ctx context.Context, s *model.PersonalTraining) error {
	const q = `INSERT INTO personal_training_sessions (trainer_id, member_id, session_date, price_cents, status)
	           VALUES (?, ?, ?, ?, 'SCHEDULED')`
	res, err := r.db.ExecContext(ctx, q, s.TrainerID, s.MemberID,
		model.Date(s.SessionDate).Format(model.DateLayout), s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.Status = model.PTScheduled
	return nil
}

// SetStatus moves a session to COMPLETED or CANCELED.  SCHEDULED is
// the only source state; anything else reports ErrConflict.
func (r *PersonalTrainingRepo) SetStatus(ctx context.Context, id uint64, to string) error {
	const q = `UPDATE personal_training_sessions SET status = ? WHERE id = ? AND status = 'SCHEDULED'`
	res, err := r.db.ExecContext(ctx, q, to, id)
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

// CompletedRevenueByTrainer sums the price of COMPLETED sessions for
// the trainer in [from, to].  Feeds the personal-training commission.
func (r *PersonalTrainingRepo) CompletedRevenueByTrainer(ctx context.Context, trainerID uint64, from, to time.Time) (int64, error) {
	const q = `SELECT COALESCE(SUM(price_cents), 0) FROM personal_training_sessions
	           WHERE trainer_id = ? AND status = 'COMPLETED'
	             AND session_date >= ? AND session_date <= ?`
	var cents int64
	err := r.db.QueryRowContext(ctx, q, trainerID,
		model.Date(from).Format(model.DateLayout), model.Date(to).Format(model.DateLayout)).Scan(&cents)
	return cents, err
}
