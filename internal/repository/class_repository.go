// Package repository contains the data access layer.  Each table gets
// one repository struct bound to a *sql.DB; methods with a Tx suffix
// participate in a caller-managed transaction instead.  All timestamp
// columns are stored in UTC and date columns compared at day
// granularity.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// ErrClassNotFound indicates that a class was not located in the DB.
var ErrClassNotFound = errors.New("class not found")

// ClassRepo manages persistence for classes.
type ClassRepo struct {
	db *sql.DB
}

// NewClassRepo constructs a ClassRepo with the given DB handle.
func NewClassRepo(db *sql.DB) *ClassRepo { return &ClassRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ClassRepo) DB() *sql.DB { return r.db }

const classColumns = `id, trainer_id, name, weekdays, starts_at_time, ends_at_time, capacity, price_cents, status, created_at, updated_at`

func scanClass(row interface{ Scan(...any) error }) (*model.Class, error) {
	var c model.Class
	var days uint8
	var price sql.NullInt64
	if err := row.Scan(&c.ID, &c.TrainerID, &c.Name, &days, &c.StartTime, &c.EndTime,
		&c.Capacity, &price, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Days = model.WeekdaySet(days)
	if price.Valid {
		p := price.Int64
		c.PriceCents = &p
	}
	return &c, nil
}

// Create inserts a new class and populates the generated ID plus the
// DB-default status and timestamps on the given struct.
func (r *ClassRepo) Create(ctx context.Context, c *model.Class) error {
	const q = `INSERT INTO classes (trainer_id, name, weekdays, starts_at_time, ends_at_time, capacity, price_cents)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	var price any
	if c.PriceCents != nil {
		price = *c.PriceCents
	}
	res, err := r.db.ExecContext(ctx, q, c.TrainerID, c.Name, uint8(c.Days), c.StartTime, c.EndTime, c.Capacity, price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const sel = `SELECT ` + classColumns + ` FROM classes WHERE id = ?`
	got, err := scanClass(r.db.QueryRowContext(ctx, sel, c.ID))
	if err != nil {
		return err
	}
	*c = *got
	return nil
}

// GetByID retrieves a class by its ID.  It returns ErrClassNotFound
// when there is no matching row.
func (r *ClassRepo) GetByID(ctx context.Context, id uint64) (*model.Class, error) {
	const q = `SELECT ` + classColumns + ` FROM classes WHERE id = ?`
	c, err := scanClass(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	return c, err
}

// GetByIDTx is GetByID inside a caller-managed transaction.  The row
// is locked FOR UPDATE: the class row is the serialization point for
// enrollment capacity checks, scoped to one class so unrelated classes
// stay concurrent.
func (r *ClassRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Class, error) {
	const q = `SELECT ` + classColumns + ` FROM classes WHERE id = ? FOR UPDATE`
	c, err := scanClass(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	return c, err
}

// List returns all classes ordered by id.  When openOnly is true,
// CLOSED classes are filtered out.
func (r *ClassRepo) List(ctx context.Context, openOnly bool) ([]model.Class, error) {
	q := `SELECT ` + classColumns + ` FROM classes`
	if openOnly {
		q += ` WHERE status = 'OPEN'`
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Class, 0)
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields (schedule, capacity, price,
// status) of a class.  Identity fields never change.  Returns
// ErrClassNotFound when the class does not exist.
func (r *ClassRepo) Update(ctx context.Context, c *model.Class) error {
	const q = `UPDATE classes
	           SET name = ?, weekdays = ?, starts_at_time = ?, ends_at_time = ?, capacity = ?, price_cents = ?, status = ?
	           WHERE id = ?`
	var price any
	if c.PriceCents != nil {
		price = *c.PriceCents
	}
	res, err := r.db.ExecContext(ctx, q, c.Name, uint8(c.Days), c.StartTime, c.EndTime, c.Capacity, price, c.Status, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either missing or identical values; distinguish by lookup.
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Close marks a class CLOSED.  Historical bookings and enrollments
// are kept; the class just stops accepting new commitments.
func (r *ClassRepo) Close(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE classes SET status = 'CLOSED' WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
