package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAssignmentRepo(db)

	t.Run("new pair is created", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO traveler_cities (traveler_id, city_id) VALUES (?, ?)")).
			WithArgs(uint64(7), uint64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		created, err := repo.Assign(context.Background(), 7, 5)
		require.NoError(t, err)
		assert.True(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing pair is a no-op", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO traveler_cities")).
			WithArgs(uint64(7), uint64(5)).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '7-5' for key 'PRIMARY'"))

		created, err := repo.Assign(context.Background(), 7, 5)
		require.NoError(t, err)
		assert.False(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUnassign(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAssignmentRepo(db)

	t.Run("existing link is removed", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM traveler_cities WHERE traveler_id = ? AND city_id = ?")).
			WithArgs(uint64(7), uint64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Unassign(context.Background(), 7, 5))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing link reports sql.ErrNoRows", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM traveler_cities")).
			WithArgs(uint64(7), uint64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Unassign(context.Background(), 7, 99)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListVisited(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAssignmentRepo(db)

	t.Run("joins city and country metadata", func(t *testing.T) {
		mock.ExpectQuery("SELECT c.id, c.name, co.name, COALESCE").
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "country", "currency"}).
				AddRow(5, "Tokyo", "Japan", "JPY").
				AddRow(6, "Antarctic Station", "Antarctica", ""))

		cities, err := repo.ListVisited(context.Background(), 7)
		require.NoError(t, err)
		require.Len(t, cities, 2)
		assert.Equal(t, "Tokyo", cities[0].Name)
		assert.Equal(t, "Japan", cities[0].CountryName)
		assert.Equal(t, "JPY", cities[0].CurrencyCode)
		assert.Empty(t, cities[1].CurrencyCode)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("traveler with no cities gets an empty list", func(t *testing.T) {
		mock.ExpectQuery("SELECT c.id, c.name, co.name, COALESCE").
			WithArgs(uint64(8)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "country", "currency"}))

		cities, err := repo.ListVisited(context.Background(), 8)
		require.NoError(t, err)
		assert.Empty(t, cities)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
