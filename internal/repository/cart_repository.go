package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
)

const cartCols = `id, client_id, product_service_id, quantity, price_at_add, created_at`

// CartRepo provides data access to the cart_items table.  A client has
// at most one row per catalog entry; the price_at_add column is
// written once when the row is inserted and never updated afterwards.
type CartRepo struct {
	db *sql.DB
}

// NewCartRepo returns a new CartRepo bound to the given database.
func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// WithTx runs fn inside a transaction on this repository's database.
func (r *CartRepo) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return WithTx(ctx, r.db, fn)
}

// ItemByProductForUpdate returns the client's cart row for one catalog
// entry, locked for the remainder of the surrounding transaction so a
// concurrent add of the same item cannot race the merge.  sql.ErrNoRows
// is returned when the client has not added the item yet.
func (r *CartRepo) ItemByProductForUpdate(ctx context.Context, clientID, productServiceID uint64) (*model.CartItem, error) {
	const sel = `SELECT ` + cartCols + ` FROM cart_items
	             WHERE client_id = ? AND product_service_id = ? FOR UPDATE`
	return scanCartItem(q(ctx, r.db).QueryRowContext(ctx, sel, clientID, productServiceID))
}

// Insert creates a new cart row.  The generated ID and creation
// timestamp are populated on item before returning.
func (r *CartRepo) Insert(ctx context.Context, item *model.CartItem) error {
	ex := q(ctx, r.db)
	const ins = `INSERT INTO cart_items (client_id, product_service_id, quantity, price_at_add)
	             VALUES (?, ?, ?, ?)`
	result, err := ex.ExecContext(ctx, ins, item.ClientID, item.ProductServiceID, item.Quantity, item.PriceAtAdd)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = uint64(id)
	const sel = `SELECT created_at FROM cart_items WHERE id = ?`
	return ex.QueryRowContext(ctx, sel, item.ID).Scan(&item.CreatedAt)
}

// AddQuantity increments a cart row's quantity.  The price snapshot is
// deliberately left untouched.
func (r *CartRepo) AddQuantity(ctx context.Context, id uint64, delta int) error {
	const upd = `UPDATE cart_items SET quantity = quantity + ? WHERE id = ?`
	_, err := q(ctx, r.db).ExecContext(ctx, upd, delta, id)
	return err
}

// SetQuantity overwrites a cart row's quantity, verifying ownership.
// sql.ErrNoRows is returned when the row does not exist or belongs to
// another client.
func (r *CartRepo) SetQuantity(ctx context.Context, id, clientID uint64, quantity int) error {
	const upd = `UPDATE cart_items SET quantity = ? WHERE id = ? AND client_id = ?`
	result, err := q(ctx, r.db).ExecContext(ctx, upd, quantity, id, clientID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Remove deletes one cart row, verifying ownership.
func (r *CartRepo) Remove(ctx context.Context, id, clientID uint64) error {
	const del = `DELETE FROM cart_items WHERE id = ? AND client_id = ?`
	result, err := q(ctx, r.db).ExecContext(ctx, del, id, clientID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Clear deletes all of the client's cart rows.
func (r *CartRepo) Clear(ctx context.Context, clientID uint64) error {
	const del = `DELETE FROM cart_items WHERE client_id = ?`
	_, err := q(ctx, r.db).ExecContext(ctx, del, clientID)
	return err
}

// ItemsByClient returns the client's cart ordered by insertion time.
func (r *CartRepo) ItemsByClient(ctx context.Context, clientID uint64) ([]model.CartItem, error) {
	const sel = `SELECT ` + cartCols + ` FROM cart_items WHERE client_id = ? ORDER BY created_at ASC`
	return r.selectMany(ctx, sel, clientID)
}

// ItemsForUpdate is like ItemsByClient but locks the rows so the
// cart-to-order conversion reads a stable snapshot: no row can be
// added, changed or removed by another request until the surrounding
// transaction finishes.
func (r *CartRepo) ItemsForUpdate(ctx context.Context, clientID uint64) ([]model.CartItem, error) {
	const sel = `SELECT ` + cartCols + ` FROM cart_items WHERE client_id = ? ORDER BY created_at ASC FOR UPDATE`
	return r.selectMany(ctx, sel, clientID)
}

func (r *CartRepo) selectMany(ctx context.Context, query string, args ...any) ([]model.CartItem, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CartItem, 0)
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.ClientID, &item.ProductServiceID, &item.Quantity, &item.PriceAtAdd, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanCartItem(row *sql.Row) (*model.CartItem, error) {
	var item model.CartItem
	if err := row.Scan(&item.ID, &item.ClientID, &item.ProductServiceID, &item.Quantity, &item.PriceAtAdd, &item.CreatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

// requireRow converts a zero-rows-affected result into sql.ErrNoRows.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
