package repository

import (
	"context"
	"database/sql"
	"time"
)

// SessionRepo persists/validates login sessions (single 'token_hash' column).
// Only the SHA-256 hash of the opaque session token ever reaches the
// database; the raw token lives in the traveler's cookie.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Store inserts a session token hash row.
func (r *SessionRepo) Store(ctx context.Context, travelerID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (traveler_id, token_hash, expires_at) VALUES (?,?,?)",
		travelerID, tokenHash, exp)
	return err
}

// Validate returns the traveler ID if a non-revoked, non-expired session exists.
func (r *SessionRepo) Validate(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		travelerID uint64
		expiresAt  time.Time
		revokedAt  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT traveler_id, expires_at, revoked_at FROM sessions WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&travelerID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid {
		return 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return travelerID, nil
}

// RevokeByHash marks a session as revoked. Logout calls this with the hash
// of the cookie token.
func (r *SessionRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForTraveler revokes all of a traveler's active sessions.
func (r *SessionRepo) RevokeAllForTraveler(ctx context.Context, travelerID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=NOW() WHERE traveler_id=? AND revoked_at IS NULL",
		travelerID)
	return err
}
