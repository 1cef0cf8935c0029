package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// ErrTrainerNotFound indicates that a trainer was not located in the DB.
var ErrTrainerNotFound = errors.New("trainer not found")

// TrainerRepo manages persistence for trainers.
type TrainerRepo struct {
	db *sql.DB
}

// NewTrainerRepo constructs a TrainerRepo bound to the given database.
func NewTrainerRepo(db *sql.DB) *TrainerRepo { return &TrainerRepo{db: db} }

const trainerColumns = `id, full_name, email, base_salary_cents, is_active, created_at`

// GetByID retrieves a trainer by ID.  Returns ErrTrainerNotFound when
// there is no matching row.
func (r *TrainerRepo) GetByID(ctx context.Context, id uint64) (*model.Trainer, error) {
	const q = `SELECT ` + trainerColumns + ` FROM trainers WHERE id = ?`
	var t model.Trainer
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.FullName, &t.Email, &t.BaseSalaryCents, &t.IsActive, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListActive returns all active trainers ordered by id.  The payroll
// aggregator iterates this list when generating a month.
func (r *TrainerRepo) ListActive(ctx context.Context) ([]model.Trainer, error) {
	const q = `SELECT ` + trainerColumns + ` FROM trainers WHERE is_active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Trainer, 0)
	for rows.Next() {
		var t model.Trainer
		if err := rows.Scan(&t.ID, &t.FullName, &t.Email, &t.BaseSalaryCents, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
