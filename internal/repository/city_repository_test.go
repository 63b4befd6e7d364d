package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCityFindOrCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewCityRepo(db)

	cols := []string{"id", "name", "country_id", "created_at"}
	now := time.Now()

	t.Run("existing city is returned unchanged", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, country_id, created_at FROM cities WHERE name = ?")).
			WithArgs("Tokyo").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(5, "Tokyo", 2, now))

		city, err := repo.FindOrCreate(context.Background(), "Tokyo", 9)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), city.ID)
		// The stored row wins: the requested country id is ignored for an
		// existing city.
		assert.Equal(t, uint64(2), city.CountryID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing city is inserted and re-read", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, country_id, created_at FROM cities WHERE name = ?")).
			WithArgs("Osaka").
			WillReturnRows(sqlmock.NewRows(cols))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cities (name, country_id) VALUES (?, ?)")).
			WithArgs("Osaka", uint64(2)).
			WillReturnResult(sqlmock.NewResult(6, 1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, country_id, created_at FROM cities WHERE id = ?")).
			WithArgs(uint64(6)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(6, "Osaka", 2, now))

		city, err := repo.FindOrCreate(context.Background(), "Osaka", 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(6), city.ID)
		assert.Equal(t, "Osaka", city.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCityDeleteIfOrphaned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewCityRepo(db)

	t.Run("city with remaining links survives", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM traveler_cities WHERE city_id = ?")).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectCommit()

		deleted, err := repo.DeleteIfOrphaned(context.Background(), 5)
		require.NoError(t, err)
		assert.False(t, deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("orphaned city is deleted", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM traveler_cities WHERE city_id = ?")).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cities WHERE id = ?")).
			WithArgs(uint64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		deleted, err := repo.DeleteIfOrphaned(context.Background(), 5)
		require.NoError(t, err)
		assert.True(t, deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
