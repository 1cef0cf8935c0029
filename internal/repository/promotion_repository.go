package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// ErrPromotionNotFound indicates that no promotion exists for a code
// or id.
var ErrPromotionNotFound = errors.New("promotion not found")

// ErrPromotionCodeTaken indicates a uniqueness violation on the code
// column.
var ErrPromotionCodeTaken = errors.New("promotion code already exists")

// PromotionRepo manages persistence for discount codes.
type PromotionRepo struct {
	db *sql.DB
}

// NewPromotionRepo constructs a PromotionRepo bound to the given database.
func NewPromotionRepo(db *sql.DB) *PromotionRepo { return &PromotionRepo{db: db} }

const promotionColumns = `id, code, discount_percent, is_active, start_date, end_date, created_at`

func scanPromotion(row interface{ Scan(...any) error }) (*model.Promotion, error) {
	var p model.Promotion
	if err := row.Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.IsActive, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new promotion.  A duplicate code surfaces as
// ErrPromotionCodeTaken (MySQL error 1062).
func (r *PromotionRepo) Create(ctx context.Context, p *model.Promotion) error {
	const q = `INSERT INTO promotions (code, discount_percent, is_active, start_date, end_date) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.Code, p.DiscountPercent, p.IsActive,
		model.Date(p.StartDate).Format(model.DateLayout), model.Date(p.EndDate).Format(model.DateLayout))
	if err != nil {
		if isDuplicateKey(err) {
			return ErrPromotionCodeTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + promotionColumns + ` FROM promotions WHERE id = ?`
	got, err := scanPromotion(r.db.QueryRowContext(ctx, sel, p.ID))
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// GetByCode retrieves a promotion by its unique code.  Returns
// ErrPromotionNotFound when the code is unknown.  Validity (active
// flag, date window) is judged by the fee engine, not here.
func (r *PromotionRepo) GetByCode(ctx context.Context, code string) (*model.Promotion, error) {
	const q = `SELECT ` + promotionColumns + ` FROM promotions WHERE code = ?`
	p, err := scanPromotion(r.db.QueryRowContext(ctx, q, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPromotionNotFound
	}
	return p, err
}

// List returns all promotions ordered by creation time descending.
func (r *PromotionRepo) List(ctx context.Context) ([]model.Promotion, error) {
	const q = `SELECT ` + promotionColumns + ` FROM promotions ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Promotion, 0)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Deactivate flips the active flag off.  Returns ErrPromotionNotFound
// for unknown ids.
func (r *PromotionRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE promotions SET is_active = FALSE WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM promotions WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrPromotionNotFound
		}
	}
	return nil
}
