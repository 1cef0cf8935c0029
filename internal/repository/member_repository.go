package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// ErrMemberNotFound indicates that a member was not located in the DB.
var ErrMemberNotFound = errors.New("member not found")

// MemberRepo manages the local projection of members.  Accounts live
// in the external identity provider; this table only carries the
// fields needed for ownership checks and notification payloads.
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepo constructs a MemberRepo bound to the given database.
func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

// GetByID retrieves a member by ID.  Returns ErrMemberNotFound when
// there is no matching row.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (*model.Member, error) {
	const q = `SELECT id, full_name, email, created_at FROM members WHERE id = ?`
	var m model.Member
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.FullName, &m.Email, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
