package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo provides data access to the refresh_tokens table.  Only
// SHA-256 hashes of refresh tokens are stored.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a new TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh records a refresh token hash for a user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	const ins = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, ins, userID, tokenHash, expiresAt.UTC().Format("2006-01-02 15:04:05"))
	return err
}

// UserForRefresh returns the owner of a valid (unexpired, unrevoked)
// refresh token hash.  sql.ErrNoRows is returned when the token is
// unknown, expired or revoked.
func (r *TokenRepo) UserForRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	const sel = `SELECT user_id FROM refresh_tokens
	             WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()`
	var uid uint64
	if err := r.db.QueryRowContext(ctx, sel, tokenHash).Scan(&uid); err != nil {
		return 0, err
	}
	return uid, nil
}

// RevokeAllForUser revokes every live refresh token of one user,
// logging the user out of all sessions.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	const upd = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
	             WHERE user_id = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, upd, userID)
	return err
}

// Revoke marks a refresh token as revoked.  Revoking an unknown token
// returns sql.ErrNoRows so handlers can report it.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	const upd = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
	             WHERE token_hash = ? AND revoked_at IS NULL`
	result, err := r.db.ExecContext(ctx, upd, tokenHash)
	if err != nil {
		return err
	}
	return requireRow(result)
}
