package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
)

const catalogCols = `id, code, name, description, type, price, user_id, status, created_at, deleted_at`

// CatalogRepo provides data access to the products_services table.
// Entries are soft-deleted so cart items, order items and reservations
// keep valid references.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo returns a new CatalogRepo bound to the given database.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// Resolve returns the price and kind of an active catalog entry.  It
// is the lookup used by the queue and checkout services; sql.ErrNoRows
// is returned for unknown or soft-deleted entries.
func (r *CatalogRepo) Resolve(ctx context.Context, id uint64) (model.CatalogEntry, error) {
	const sel = `SELECT id, price, type FROM products_services WHERE id = ? AND status = 'A'`
	var e model.CatalogEntry
	if err := q(ctx, r.db).QueryRowContext(ctx, sel, id).Scan(&e.ID, &e.Price, &e.Kind); err != nil {
		return model.CatalogEntry{}, err
	}
	return e, nil
}

// Create inserts a new catalog entry and assigns its human-readable
// code (PROD-000001 / SERV-000001) derived from the generated ID.
func (r *CatalogRepo) Create(ctx context.Context, p *model.ProductService) error {
	ex := q(ctx, r.db)
	const ins = `INSERT INTO products_services (name, description, type, price, user_id, status)
	             VALUES (?, ?, ?, ?, ?, 'A')`
	result, err := ex.ExecContext(ctx, ins, p.Name, p.Description, p.Kind, p.Price, p.UserID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	prefix := "PROD"
	if p.Kind == model.KindService {
		prefix = "SERV"
	}
	p.Code = fmt.Sprintf("%s-%06d", prefix, p.ID)
	p.Status = "A"
	const upd = `UPDATE products_services SET code = ? WHERE id = ?`
	if _, err := ex.ExecContext(ctx, upd, p.Code, p.ID); err != nil {
		return err
	}
	const sel = `SELECT created_at FROM products_services WHERE id = ?`
	return ex.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt)
}

// Get returns one catalog entry regardless of its soft-delete status.
func (r *CatalogRepo) Get(ctx context.Context, id uint64) (*model.ProductService, error) {
	const sel = `SELECT ` + catalogCols + ` FROM products_services WHERE id = ?`
	return scanProductService(q(ctx, r.db).QueryRowContext(ctx, sel, id))
}

// List returns all active catalog entries ordered by name.
func (r *CatalogRepo) List(ctx context.Context) ([]model.ProductService, error) {
	const sel = `SELECT ` + catalogCols + ` FROM products_services WHERE status = 'A' ORDER BY name`
	rows, err := q(ctx, r.db).QueryContext(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ProductService, 0)
	for rows.Next() {
		var p model.ProductService
		var desc, code sql.NullString
		var deleted sql.NullTime
		if err := rows.Scan(&p.ID, &code, &p.Name, &desc, &p.Kind, &p.Price, &p.UserID, &p.Status, &p.CreatedAt, &deleted); err != nil {
			return nil, err
		}
		p.Code = code.String
		p.Description = desc.String
		if deleted.Valid {
			t := deleted.Time
			p.DeletedAt = &t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the editable fields of an entry owned by userID.
// sql.ErrNoRows is returned when the entry does not exist; ErrForbidden
// when it belongs to another user.
func (r *CatalogRepo) Update(ctx context.Context, id, userID uint64, p *model.ProductService) error {
	if err := r.checkOwner(ctx, id, userID); err != nil {
		return err
	}
	const upd = `UPDATE products_services SET name = ?, description = ?, type = ?, price = ? WHERE id = ?`
	_, err := q(ctx, r.db).ExecContext(ctx, upd, p.Name, p.Description, p.Kind, p.Price, id)
	return err
}

// SoftDelete marks an entry as deleted without removing the row.
func (r *CatalogRepo) SoftDelete(ctx context.Context, id, userID uint64) error {
	if err := r.checkOwner(ctx, id, userID); err != nil {
		return err
	}
	const upd = `UPDATE products_services SET status = 'D', deleted_at = UTC_TIMESTAMP() WHERE id = ?`
	_, err := q(ctx, r.db).ExecContext(ctx, upd, id)
	return err
}

func (r *CatalogRepo) checkOwner(ctx context.Context, id, userID uint64) error {
	const sel = `SELECT user_id FROM products_services WHERE id = ?`
	var owner uint64
	if err := q(ctx, r.db).QueryRowContext(ctx, sel, id).Scan(&owner); err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	return nil
}

func scanProductService(row *sql.Row) (*model.ProductService, error) {
	var p model.ProductService
	var desc, code sql.NullString
	var deleted sql.NullTime
	if err := row.Scan(&p.ID, &code, &p.Name, &desc, &p.Kind, &p.Price, &p.UserID, &p.Status, &p.CreatedAt, &deleted); err != nil {
		return nil, err
	}
	p.Code = code.String
	p.Description = desc.String
	if deleted.Valid {
		t := deleted.Time
		p.DeletedAt = &t
	}
	return &p, nil
}
