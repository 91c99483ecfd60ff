package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
)

// PaymentMethodRepo provides data access to the payment_methods table.
type PaymentMethodRepo struct {
	db *sql.DB
}

// NewPaymentMethodRepo returns a new PaymentMethodRepo bound to the
// given database.
func NewPaymentMethodRepo(db *sql.DB) *PaymentMethodRepo { return &PaymentMethodRepo{db: db} }

// Create inserts a new payment method.
func (r *PaymentMethodRepo) Create(ctx context.Context, pm *model.PaymentMethod) error {
	const ins = `INSERT INTO payment_methods (name, icon, is_active) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, ins, pm.Name, pm.Icon, pm.IsActive)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	pm.ID = uint64(id)
	const sel = `SELECT created_at FROM payment_methods WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, pm.ID).Scan(&pm.CreatedAt)
}

// List returns payment methods.  When activeOnly is true, disabled
// methods are filtered out; that is the view clients see at checkout.
func (r *PaymentMethodRepo) List(ctx context.Context, activeOnly bool) ([]model.PaymentMethod, error) {
	query := `SELECT id, name, icon, is_active, created_at FROM payment_methods ORDER BY name`
	if activeOnly {
		query = `SELECT id, name, icon, is_active, created_at FROM payment_methods WHERE is_active = 1 ORDER BY name`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PaymentMethod, 0)
	for rows.Next() {
		var pm model.PaymentMethod
		var icon sql.NullString
		if err := rows.Scan(&pm.ID, &pm.Name, &icon, &pm.IsActive, &pm.CreatedAt); err != nil {
			return nil, err
		}
		pm.Icon = icon.String
		out = append(out, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive toggles a payment method on or off.  sql.ErrNoRows is
// returned when the method does not exist.
func (r *PaymentMethodRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	const upd = `UPDATE payment_methods SET is_active = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, upd, active, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
