package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionValidate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSessionRepo(db)

	const q = "SELECT traveler_id, expires_at, revoked_at FROM sessions WHERE token_hash=? LIMIT 1"
	cols := []string{"traveler_id", "expires_at", "revoked_at"}

	t.Run("active session resolves to its traveler", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(q)).
			WithArgs("hash-1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(7, time.Now().UTC().Add(time.Hour), nil))

		id, err := repo.Validate(context.Background(), "hash-1")
		require.NoError(t, err)
		assert.Equal(t, uint64(7), id)
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(q)).
			WithArgs("hash-2").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(7, time.Now().UTC().Add(-time.Minute), nil))

		_, err := repo.Validate(context.Background(), "hash-2")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("revoked session is rejected", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(q)).
			WithArgs("hash-3").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(7, time.Now().UTC().Add(time.Hour), time.Now().UTC()))

		_, err := repo.Validate(context.Background(), "hash-3")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(q)).
			WithArgs("hash-4").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.Validate(context.Background(), "hash-4")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
