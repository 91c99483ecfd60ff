package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
)

// activeStatuses is the SQL fragment enumerating the statuses that
// occupy a queue slot.  It must stay in sync with
// model.ActiveReservationStatuses.
const activeStatuses = `'pending','accepted','in_progress'`

// reservationCols is the column list shared by every reservation
// SELECT in this file.
const reservationCols = `id, reservation_number, client_id, service_id, location_id,
                         vehicle_plate, status, queue_position, created_at, updated_at`

// ReservationRepo provides data access to the reservations table.  It
// owns the two queue-sensitive statements: the locked max-position
// read used when a reservation joins a queue, and the conditional
// decrement that closes the gap when one leaves.  Both must run inside
// a transaction started with WithTx.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// WithTx runs fn inside a transaction on this repository's database.
func (r *ReservationRepo) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return WithTx(ctx, r.db, fn)
}

// Create inserts a new reservation at the back of its location's
// queue.  The max-position read locks the matching rows (FOR UPDATE)
// so that concurrent creations at the same location serialize and can
// never be assigned the same slot; callers must wrap the call in
// WithTx.  The generated ID, position and timestamps are populated on
// res before returning.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	ex := q(ctx, r.db)
	const posQ = `SELECT COALESCE(MAX(queue_position), 0) FROM reservations
	              WHERE location_id = ? AND status IN (` + activeStatuses + `) FOR UPDATE`
	var maxPos int
	if err := ex.QueryRowContext(ctx, posQ, res.LocationID).Scan(&maxPos); err != nil {
		return err
	}
	pos := maxPos + 1
	const ins = `INSERT INTO reservations
	             (reservation_number, client_id, service_id, location_id, vehicle_plate, status, queue_position)
	             VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := ex.ExecContext(ctx, ins,
		res.Number, res.ClientID, res.ServiceID, res.LocationID,
		res.VehiclePlate, string(res.Status), pos,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.QueuePosition = &pos
	// Query back the row to populate DB-generated timestamps.
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	return ex.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// Get returns a reservation by ID.  sql.ErrNoRows is returned when it
// does not exist.
func (r *ReservationRepo) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	return scanReservation(q(ctx, r.db).QueryRowContext(ctx, sel, id))
}

// GetForUpdate is like Get but locks the row for the remainder of the
// surrounding transaction, keeping a status transition and its queue
// compaction atomic with respect to concurrent updates.
func (r *ReservationRepo) GetForUpdate(ctx context.Context, id uint64) (*model.Reservation, error) {
	const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ? FOR UPDATE`
	return scanReservation(q(ctx, r.db).QueryRowContext(ctx, sel, id))
}

// UpdateStatusAndPosition writes a reservation's status and queue
// position in one statement.  Passing a nil position clears the slot.
func (r *ReservationRepo) UpdateStatusAndPosition(ctx context.Context, id uint64, status model.ReservationStatus, position *int) error {
	const upd = `UPDATE reservations SET status = ?, queue_position = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	var pos any
	if position != nil {
		pos = *position
	}
	result, err := q(ctx, r.db).ExecContext(ctx, upd, string(status), pos, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ShiftPositionsAfter moves every active reservation at the location
// that sits behind the vacated slot one position forward.  It is a
// single conditional UPDATE so readers never observe a half-shifted
// queue inside the surrounding transaction.
func (r *ReservationRepo) ShiftPositionsAfter(ctx context.Context, locationID uint64, position int) error {
	const upd = `UPDATE reservations SET queue_position = queue_position - 1
	             WHERE location_id = ? AND queue_position > ? AND status IN (` + activeStatuses + `)`
	_, err := q(ctx, r.db).ExecContext(ctx, upd, locationID, position)
	return err
}

// Queue returns all active reservations at a location ordered by
// ascending queue position.  The result is a fresh snapshot per call.
func (r *ReservationRepo) Queue(ctx context.Context, locationID uint64) ([]model.Reservation, error) {
	const sel = `SELECT ` + reservationCols + ` FROM reservations
	             WHERE location_id = ? AND status IN (` + activeStatuses + `)
	             ORDER BY queue_position ASC`
	return r.selectMany(ctx, sel, locationID)
}

// ListByClient returns all reservations made by one client, newest first.
func (r *ReservationRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Reservation, error) {
	const sel = `SELECT ` + reservationCols + ` FROM reservations
	             WHERE client_id = ? ORDER BY created_at DESC`
	return r.selectMany(ctx, sel, clientID)
}

// List returns all reservations, newest first.  A non-zero locationID
// restricts the result to one location.
func (r *ReservationRepo) List(ctx context.Context, locationID uint64) ([]model.Reservation, error) {
	if locationID != 0 {
		const sel = `SELECT ` + reservationCols + ` FROM reservations
		             WHERE location_id = ? ORDER BY created_at DESC`
		return r.selectMany(ctx, sel, locationID)
	}
	const sel = `SELECT ` + reservationCols + ` FROM reservations ORDER BY created_at DESC`
	return r.selectMany(ctx, sel)
}

// CountActive returns how many reservations currently hold a queue
// slot across all locations.  Used by the dashboard stats endpoint.
func (r *ReservationRepo) CountActive(ctx context.Context) (int, error) {
	const sel = `SELECT COUNT(*) FROM reservations WHERE status IN (` + activeStatuses + `)`
	var n int
	err := q(ctx, r.db).QueryRowContext(ctx, sel).Scan(&n)
	return n, err
}

func (r *ReservationRepo) selectMany(ctx context.Context, query string, args ...any) ([]model.Reservation, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		var status string
		var pos sql.NullInt64
		if err := rows.Scan(
			&res.ID, &res.Number, &res.ClientID, &res.ServiceID, &res.LocationID,
			&res.VehiclePlate, &status, &pos, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res.Status = model.ReservationStatus(status)
		if pos.Valid {
			p := int(pos.Int64)
			res.QueuePosition = &p
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanReservation(row *sql.Row) (*model.Reservation, error) {
	var res model.Reservation
	var status string
	var pos sql.NullInt64
	if err := row.Scan(
		&res.ID, &res.Number, &res.ClientID, &res.ServiceID, &res.LocationID,
		&res.VehiclePlate, &status, &pos, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	res.Status = model.ReservationStatus(status)
	if pos.Valid {
		p := int(pos.Int64)
		res.QueuePosition = &p
	}
	return &res, nil
}
