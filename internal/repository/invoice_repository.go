package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
)

const invoiceCols = `id, invoice_number, date, customer_name, total_amount, location_id, user_id, status`

// InvoiceRepo provides data access to the invoices and invoice_items
// tables.
type InvoiceRepo struct {
	db *sql.DB
}

// NewInvoiceRepo returns a new InvoiceRepo bound to the given database.
func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

// WithTx runs fn inside a transaction so the invoice header and its
// items are written atomically.
func (r *InvoiceRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, r.db, fn)
}

// Create inserts an invoice header.  The generated ID is populated on
// inv before returning.
func (r *InvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	const ins = `INSERT INTO invoices (invoice_number, date, customer_name, total_amount, location_id, user_id, status)
	             VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := q(ctx, r.db).ExecContext(ctx, ins,
		inv.Number, inv.Date.UTC().Format("2006-01-02"), inv.CustomerName, inv.Total, inv.LocationID, inv.UserID, inv.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	return nil
}

// CreateItems inserts invoice line items in one statement.
func (r *InvoiceRepo) CreateItems(ctx context.Context, items []model.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO invoice_items (invoice_id, product_service_id, quantity, unit_price, subtotal) VALUES `
	args := make([]any, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, it.InvoiceID, it.ProductServiceID, it.Quantity, it.UnitPrice, it.Subtotal)
	}
	_, err := q(ctx, r.db).ExecContext(ctx, query, args...)
	return err
}

// Get returns an invoice with its items.  sql.ErrNoRows is returned
// when the invoice does not exist.
func (r *InvoiceRepo) Get(ctx context.Context, id uint64) (*model.Invoice, error) {
	const sel = `SELECT ` + invoiceCols + ` FROM invoices WHERE id = ?`
	var inv model.Invoice
	row := q(ctx, r.db).QueryRowContext(ctx, sel, id)
	if err := row.Scan(&inv.ID, &inv.Number, &inv.Date, &inv.CustomerName, &inv.Total, &inv.LocationID, &inv.UserID, &inv.Status); err != nil {
		return nil, err
	}
	items, err := r.itemsFor(ctx, []uint64{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[inv.ID]
	if inv.Items == nil {
		inv.Items = []model.InvoiceItem{}
	}
	return &inv, nil
}

// List returns invoices newest first with their items populated.
func (r *InvoiceRepo) List(ctx context.Context) ([]model.Invoice, error) {
	const sel = `SELECT ` + invoiceCols + ` FROM invoices ORDER BY date DESC, id DESC`
	rows, err := q(ctx, r.db).QueryContext(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	invoices := make([]model.Invoice, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.Date, &inv.CustomerName, &inv.Total, &inv.LocationID, &inv.UserID, &inv.Status); err != nil {
			return nil, err
		}
		inv.Items = []model.InvoiceItem{}
		index[inv.ID] = len(invoices)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return invoices, nil
	}
	ids := make([]uint64, 0, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.ID)
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for iid, its := range items {
		if idx, ok := index[iid]; ok {
			invoices[idx].Items = its
		}
	}
	return invoices, nil
}

// RevenueTotal sums issued invoice totals.  Used by the dashboard
// stats endpoint.
func (r *InvoiceRepo) RevenueTotal(ctx context.Context) (float64, error) {
	const sel = `SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE status <> 'void'`
	var total float64
	err := q(ctx, r.db).QueryRowContext(ctx, sel).Scan(&total)
	return total, err
}

func (r *InvoiceRepo) itemsFor(ctx context.Context, invoiceIDs []uint64) (map[uint64][]model.InvoiceItem, error) {
	placeholders := make([]string, len(invoiceIDs))
	args := make([]any, len(invoiceIDs))
	for i, id := range invoiceIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `SELECT id, invoice_id, product_service_id, quantity, unit_price, subtotal
	          FROM invoice_items WHERE invoice_id IN (` + strings.Join(placeholders, ",") + `) ORDER BY id`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64][]model.InvoiceItem)
	for rows.Next() {
		var it model.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductServiceID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		out[it.InvoiceID] = append(out[it.InvoiceID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
