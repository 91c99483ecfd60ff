package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
)

// LocationRepo provides data access to the locations table.  Locations
// are soft-deleted so reservations and invoices keep their references.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo returns a new LocationRepo bound to the given database.
func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

// Create inserts a new location for the given owner.
func (r *LocationRepo) Create(ctx context.Context, loc *model.Location) error {
	ex := q(ctx, r.db)
	const ins = `INSERT INTO locations (name, address, user_id, status) VALUES (?, ?, ?, 'A')`
	result, err := ex.ExecContext(ctx, ins, loc.Name, loc.Address, loc.UserID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	loc.ID = uint64(id)
	loc.Status = "A"
	const sel = `SELECT created_at FROM locations WHERE id = ?`
	return ex.QueryRowContext(ctx, sel, loc.ID).Scan(&loc.CreatedAt)
}

// ListByOwner returns the owner's active locations.
func (r *LocationRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Location, error) {
	const sel = `SELECT id, name, address, user_id, status, created_at, deleted_at
	             FROM locations WHERE user_id = ? AND status = 'A' ORDER BY name`
	rows, err := q(ctx, r.db).QueryContext(ctx, sel, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Location, 0)
	for rows.Next() {
		var loc model.Location
		var deleted sql.NullTime
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.UserID, &loc.Status, &loc.CreatedAt, &deleted); err != nil {
			return nil, err
		}
		if deleted.Valid {
			t := deleted.Time
			loc.DeletedAt = &t
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a location's name and address, verifying ownership.
// sql.ErrNoRows is returned when no matching row exists.
func (r *LocationRepo) Update(ctx context.Context, id, userID uint64, name, address string) error {
	const upd = `UPDATE locations SET name = ?, address = ? WHERE id = ? AND user_id = ?`
	result, err := q(ctx, r.db).ExecContext(ctx, upd, name, address, id, userID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SoftDelete marks a location as deleted, verifying ownership.
func (r *LocationRepo) SoftDelete(ctx context.Context, id, userID uint64) error {
	const upd = `UPDATE locations SET status = 'D', deleted_at = UTC_TIMESTAMP() WHERE id = ? AND user_id = ?`
	result, err := q(ctx, r.db).ExecContext(ctx, upd, id, userID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// CountActive returns the number of active locations across all
// owners.  Used by the dashboard stats endpoint.
func (r *LocationRepo) CountActive(ctx context.Context) (int, error) {
	const sel = `SELECT COUNT(*) FROM locations WHERE status = 'A'`
	var n int
	err := q(ctx, r.db).QueryRowContext(ctx, sel).Scan(&n)
	return n, err
}
