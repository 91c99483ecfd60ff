package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
)

const orderCols = `id, order_number, client_id, status, total_amount, payment_method, created_at, updated_at`

// OrderRepo provides data access to the orders and order_items tables.
// Orders are written once during cart conversion; afterwards only the
// status column changes.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts a new order header.  The generated ID and timestamps
// are populated on o before returning.  Call inside the conversion
// transaction so the header never exists without its items.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	ex := q(ctx, r.db)
	const ins = `INSERT INTO orders (order_number, client_id, status, total_amount, payment_method)
	             VALUES (?, ?, ?, ?, ?)`
	var pm any
	if o.PaymentMethod != nil {
		pm = *o.PaymentMethod
	}
	result, err := ex.ExecContext(ctx, ins, o.Number, o.ClientID, string(o.Status), o.Total, pm)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM orders WHERE id = ?`
	return ex.QueryRowContext(ctx, sel, o.ID).Scan(&o.CreatedAt, &o.UpdatedAt)
}

// CreateItems inserts multiple order_items rows in a single statement.
// The caller must supply the order ID in each record.  Passing an
// empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, product_service_id, quantity, unit_price, subtotal) VALUES `
	args := make([]any, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, it.OrderID, it.ProductServiceID, it.Quantity, it.UnitPrice, it.Subtotal)
	}
	_, err := q(ctx, r.db).ExecContext(ctx, query, args...)
	return err
}

// Get returns an order with its items.  sql.ErrNoRows is returned when
// the order does not exist.
func (r *OrderRepo) Get(ctx context.Context, id uint64) (*model.Order, error) {
	const sel = `SELECT ` + orderCols + ` FROM orders WHERE id = ?`
	o, err := scanOrder(q(ctx, r.db).QueryRowContext(ctx, sel, id))
	if err != nil {
		return nil, err
	}
	items, err := r.itemsFor(ctx, []uint64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}
	return o, nil
}

// List returns orders newest first, each populated with its items.  A
// non-zero clientID restricts the result to one client.
func (r *OrderRepo) List(ctx context.Context, clientID uint64) ([]model.Order, error) {
	query := `SELECT ` + orderCols + ` FROM orders ORDER BY created_at DESC`
	args := []any{}
	if clientID != 0 {
		query = `SELECT ` + orderCols + ` FROM orders WHERE client_id = ? ORDER BY created_at DESC`
		args = append(args, clientID)
	}
	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := make([]model.Order, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		o, err := scanOrderRows(rows)
		if err != nil {
			return nil, err
		}
		o.Items = []model.OrderItem{}
		index[o.ID] = len(orders)
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]uint64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for oid, its := range items {
		if idx, ok := index[oid]; ok {
			orders[idx].Items = its
		}
	}
	return orders, nil
}

// SetStatus writes a new status and bumps the updated_at timestamp.
// sql.ErrNoRows is returned when the order does not exist.
func (r *OrderRepo) SetStatus(ctx context.Context, id uint64, status model.OrderStatus) error {
	const upd = `UPDATE orders SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	result, err := q(ctx, r.db).ExecContext(ctx, upd, string(status), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Stats returns the order count and the revenue sum over non-cancelled
// orders.  Used by the dashboard stats endpoint.
func (r *OrderRepo) Stats(ctx context.Context) (count int, revenue float64, err error) {
	const sel = `SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> 'cancelled'`
	err = q(ctx, r.db).QueryRowContext(ctx, sel).Scan(&count, &revenue)
	return count, revenue, err
}

// itemsFor loads order items for the given order IDs in one query and
// groups them by order.
func (r *OrderRepo) itemsFor(ctx context.Context, orderIDs []uint64) (map[uint64][]model.OrderItem, error) {
	placeholders := make([]string, len(orderIDs))
	args := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `SELECT id, order_id, product_service_id, quantity, unit_price, subtotal
	          FROM order_items WHERE order_id IN (` + strings.Join(placeholders, ",") + `) ORDER BY id`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64][]model.OrderItem)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductServiceID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOrder(row *sql.Row) (*model.Order, error) {
	var o model.Order
	var status string
	var pm sql.NullString
	if err := row.Scan(&o.ID, &o.Number, &o.ClientID, &status, &o.Total, &pm, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	if pm.Valid {
		s := pm.String
		o.PaymentMethod = &s
	}
	return &o, nil
}

func scanOrderRows(rows *sql.Rows) (*model.Order, error) {
	var o model.Order
	var status string
	var pm sql.NullString
	if err := rows.Scan(&o.ID, &o.Number, &o.ClientID, &status, &o.Total, &pm, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	if pm.Valid {
		s := pm.String
		o.PaymentMethod = &s
	}
	return &o, nil
}
