package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
	"github.com/iliyamo/car-wash-backoffice/internal/utils"
)

// UserRepo provides data access to the users table.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create hashes the password with bcrypt at the given cost and inserts
// a new user.  ErrEmailExists is returned when the email is already
// registered.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, bcryptCost int) (uint64, error) {
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return 0, err
	}
	const ins = `INSERT INTO users (email, password_hash, role, is_active) VALUES (?, ?, ?, 1)`
	result, err := r.db.ExecContext(ctx, ins, email, hash, role)
	if err != nil {
		// MySQL error 1062: duplicate entry on the unique email index.
		if strings.Contains(err.Error(), "Duplicate entry") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail returns a user by email.  sql.ErrNoRows is returned when
// no such user exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const sel = `SELECT id, email, password_hash, role, is_active, created_at, updated_at
	             FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, sel, email))
}

// GetByID returns a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const sel = `SELECT id, email, password_hash, role, is_active, created_at, updated_at
	             FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, sel, id))
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
