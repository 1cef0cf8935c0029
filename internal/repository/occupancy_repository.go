package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// OccupancyRepo computes the occupancy of a class on a specific date
// by aggregating the two independent commitment sources at query time:
// BOOKED bookings for the exact date and ACTIVE, non-expired class
// registrations whose range contains the date.  No running counter is
// maintained anywhere; the aggregation is recomputed on every call so
// there is no counter to drift.  Reads are side-effect free and safe
// to call concurrently; they are the single source of truth every
// mutating path consults before writing.
type OccupancyRepo struct {
	db *sql.DB
}

// NewOccupancyRepo constructs an OccupancyRepo bound to the given database.
func NewOccupancyRepo(db *sql.DB) *OccupancyRepo { return &OccupancyRepo{db: db} }

const occupancyQuery = `
	SELECT c.capacity,
	       (SELECT COUNT(*) FROM bookings b
	         WHERE b.class_id = c.id AND b.book_date = ? AND b.status = 'BOOKED') AS booked,
	       (SELECT COUNT(*) FROM registrations g
	         WHERE g.class_id = c.id AND g.status = 'ACTIVE'
	           AND g.start_date <= ? AND g.end_date >= ? AND g.end_date >= ?) AS registered
	FROM classes c
	WHERE c.id = ?`

// ForClassDate returns the occupancy of the class on the given date.
// Display paths use this directly; it is non-serialized and results
// may be stale by the time a subsequent write is attempted.
func (r *OccupancyRepo) ForClassDate(ctx context.Context, classID uint64, date time.Time) (model.Occupancy, error) {
	return scanOccupancy(r.db.QueryRowContext(ctx, occupancyQuery, occupancyArgs(classID, date)...))
}

// ForClassDateTx is ForClassDate within a caller-managed transaction.
// The booking coordinator re-reads occupancy through this method
// inside its serialized section so the count it acts on cannot be
// overtaken by a concurrent insert.
func (r *OccupancyRepo) ForClassDateTx(ctx context.Context, tx *sql.Tx, classID uint64, date time.Time) (model.Occupancy, error) {
	return scanOccupancy(tx.QueryRowContext(ctx, occupancyQuery, occupancyArgs(classID, date)...))
}

func occupancyArgs(classID uint64, date time.Time) []any {
	d := model.Date(date).Format(model.DateLayout)
	today := model.Today().Format(model.DateLayout)
	return []any{d, d, d, today, classID}
}

func scanOccupancy(row *sql.Row) (model.Occupancy, error) {
	var occ model.Occupancy
	if err := row.Scan(&occ.Capacity, &occ.BookedCount, &occ.RegisteredCount); err != nil {
		if err == sql.ErrNoRows {
			return model.Occupancy{}, ErrClassNotFound
		}
		return model.Occupancy{}, err
	}
	return occ, nil
}
