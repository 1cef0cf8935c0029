package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// ErrPackageNotFound indicates that a package was not located in the DB.
var ErrPackageNotFound = errors.New("package not found")

// PackageRepo manages persistence for membership packages.
type PackageRepo struct {
	db *sql.DB
}

// NewPackageRepo constructs a PackageRepo bound to the given database.
func NewPackageRepo(db *sql.DB) *PackageRepo { return &PackageRepo{db: db} }

const packageColumns = `id, name, monthly_price_cents, is_active, created_at`

// Create inserts a new package and populates the generated ID.
func (r *PackageRepo) Create(ctx context.Context, p *model.Package) error {
	const q = `INSERT INTO packages (name, monthly_price_cents, is_active) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.MonthlyPriceCents, p.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + packageColumns + ` FROM packages WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.ID, &p.Name, &p.MonthlyPriceCents, &p.IsActive, &p.CreatedAt)
}

// GetByID retrieves a package by its ID.  Returns ErrPackageNotFound
// when there is no matching row.
func (r *PackageRepo) GetByID(ctx context.Context, id uint64) (*model.Package, error) {
	const q = `SELECT ` + packageColumns + ` FROM packages WHERE id = ?`
	var p model.Package
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.MonthlyPriceCents, &p.IsActive, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all active packages ordered by id.
func (r *PackageRepo) List(ctx context.Context) ([]model.Package, error) {
	const q = `SELECT ` + packageColumns + ` FROM packages WHERE is_active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Package, 0)
	for rows.Next() {
		var p model.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.MonthlyPriceCents, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites name, price and active flag.
func (r *PackageRepo) Update(ctx context.Context, p *model.Package) error {
	const q = `UPDATE packages SET name = ?, monthly_price_cents = ?, is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.MonthlyPriceCents, p.IsActive, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}
