package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo manages persistence for single-date class bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for transaction control.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, member_id, class_id, book_date, status, note, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	var note sql.NullString
	if err := row.Scan(&b.ID, &b.MemberID, &b.ClassID, &b.Date, &b.Status, &note, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if note.Valid {
		n := note.String
		b.Note = &n
	}
	return &b, nil
}

// CreateTx inserts a new BOOKED booking within the caller's
// transaction and populates the generated ID and DB-default fields on
// the given struct.  It must only be called from inside the booking
// coordinator's serialized section.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (member_id, class_id, book_date, status, note) VALUES (?, ?, ?, 'BOOKED', ?)`
	var note any
	if b.Note != nil {
		note = *b.Note
	}
	res, err := tx.ExecContext(ctx, q, b.MemberID, b.ClassID, model.Date(b.Date).Format(model.DateLayout), note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// HasBookedTx reports whether the member already holds a BOOKED
// booking for the class on the date, inside the caller's transaction.
func (r *BookingRepo) HasBookedTx(ctx context.Context, tx *sql.Tx, memberID, classID uint64, date time.Time) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM bookings
	           WHERE member_id = ? AND class_id = ? AND book_date = ? AND status = 'BOOKED')`
	var exists bool
	err := tx.QueryRowContext(ctx, q, memberID, classID, model.Date(date).Format(model.DateLayout)).Scan(&exists)
	return exists, err
}

// GetByID retrieves a booking by its ID.  Returns ErrBookingNotFound
// when there is no matching row.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// UpdateStatus persists a state machine transition that already
// happened on the model.  The WHERE clause re-checks the expected
// source status so a lost race surfaces as ErrConflict instead of a
// silent double transition.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to string) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, id, from)
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

// ListByMember returns the member's bookings newest first, with the
// class name joined in for display.
func (r *BookingRepo) ListByMember(ctx context.Context, memberID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.class_id, c.name, b.book_date, b.status, b.note, b.created_at
	           FROM bookings b
	           JOIN classes c ON c.id = b.class_id
	           WHERE b.member_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var note sql.NullString
		var bookDate time.Time
		if err := rows.Scan(&d.ID, &d.ClassID, &d.ClassName, &bookDate, &d.Status, &note, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Date = bookDate.Format(model.DateLayout)
		if note.Valid {
			n := note.String
			d.Note = &n
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// BookingDetail is the member-facing projection of a booking joined
// with its class.
type BookingDetail struct {
	ID        uint64    `json:"id"`
	ClassID   uint64    `json:"class_id"`
	ClassName string    `json:"class_name"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CountAttendanceByTrainer returns, for every class of the trainer in
// [from, to], the number of BOOKED-or-ATTENDED and ATTENDED bookings.
// The payroll aggregator derives the attendance rate from these two
// figures.
func (r *BookingRepo) CountAttendanceByTrainer(ctx context.Context, trainerID uint64, from, to time.Time) (total, attended int, err error) {
	const q = `SELECT
	             COALESCE(SUM(CASE WHEN b.status IN ('BOOKED','ATTENDED') THEN 1 ELSE 0 END), 0),
	             COALESCE(SUM(CASE WHEN b.status = 'ATTENDED' THEN 1 ELSE 0 END), 0)
	           FROM bookings b
	           JOIN classes c ON c.id = b.class_id
	           WHERE c.trainer_id = ? AND b.book_date >= ? AND b.book_date <= ?`
	err = r.db.QueryRowContext(ctx, q, trainerID,
		model.Date(from).Format(model.DateLayout), model.Date(to).Format(model.DateLayout)).Scan(&total, &attended)
	return total, attended, err
}

// DistinctStudentsByTrainer counts the distinct members who attended
// or booked any of the trainer's classes in [from, to].
func (r *BookingRepo) DistinctStudentsByTrainer(ctx context.Context, trainerID uint64, from, to time.Time) (int, error) {
	const q = `SELECT COUNT(DISTINCT b.member_id)
	           FROM bookings b
	           JOIN classes c ON c.id = b.class_id
	           WHERE c.trainer_id = ? AND b.book_date >= ? AND b.book_date <= ?
	             AND b.status IN ('BOOKED','ATTENDED')`
	var n int
	err := r.db.QueryRowContext(ctx, q, trainerID,
		model.Date(from).Format(model.DateLayout), model.Date(to).Format(model.DateLayout)).Scan(&n)
	return n, err
}

// SessionDatesTaughtByTrainer counts the distinct (class, date) pairs
// with at least one non-canceled booking for the trainer's classes in
// [from, to].  Used for the per-session commission component.
func (r *BookingRepo) SessionDatesTaughtByTrainer(ctx context.Context, trainerID uint64, from, to time.Time) (int, error) {
	const q = `SELECT COUNT(DISTINCT CONCAT(b.class_id, '|', b.book_date))
	           FROM bookings b
	           JOIN classes c ON c.id = b.class_id
	           WHERE c.trainer_id = ? AND b.book_date >= ? AND b.book_date <= ?
	             AND b.status IN ('BOOKED','ATTENDED')`
	var n int
	err := r.db.QueryRowContext(ctx, q, trainerID,
		model.Date(from).Format(model.DateLayout), model.Date(to).Format(model.DateLayout)).Scan(&n)
	return n, err
}
