// This file defines repository methods for the traveler_cities join table.
// The pair (traveler_id, city_id) is the primary key, so the database
// enforces at-most-one assignment per traveler and city; the repository
// turns the resulting duplicate-key error into a created=false no-op.
package repository

import (
	"context"
	"database/sql"
	"strings"
)

// VisitedCity is the row shape used by the home page: a city joined with
// the name and currency of its country. It exists here rather than in the
// model package because it never maps to a single table.
type VisitedCity struct {
	ID           uint64 // cities.id
	Name         string // cities.name
	CountryName  string // countries.name
	CurrencyCode string // countries.currency_code, empty if unresolved
}

// AssignmentRepo encapsulates all database queries for traveler-city links.
type AssignmentRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewAssignmentRepo constructs an AssignmentRepo with the provided DB handle.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

// Assign links a traveler to a city. It reports created=false without an
// error when the pair already exists; the duplicate-key constraint on the
// composite primary key is the sole uniqueness check, so two concurrent
// requests cannot both create the link.
func (r *AssignmentRepo) Assign(ctx context.Context, travelerID, cityID uint64) (created bool, err error) {
	const q = "INSERT INTO traveler_cities (traveler_id, city_id) VALUES (?, ?)"
	if _, err := r.db.ExecContext(ctx, q, travelerID, cityID); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Unassign removes the link between a traveler and a city. It returns
// sql.ErrNoRows when no such link exists so handlers can answer 404 for a
// city the traveler never added.
func (r *AssignmentRepo) Unassign(ctx context.Context, travelerID, cityID uint64) error {
	const q = "DELETE FROM traveler_cities WHERE traveler_id = ? AND city_id = ?"
	res, err := r.db.ExecContext(ctx, q, travelerID, cityID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListVisited returns the cities assigned to a traveler, joined with their
// country metadata, ordered by when they were added.
func (r *AssignmentRepo) ListVisited(ctx context.Context, travelerID uint64) ([]*VisitedCity, error) {
	const q = `SELECT c.id, c.name, co.name, COALESCE(co.currency_code, '')
	           FROM traveler_cities tc
	           JOIN cities c ON c.id = tc.city_id
	           JOIN countries co ON co.id = c.country_id
	           WHERE tc.traveler_id = ?
	           ORDER BY tc.created_at, c.id`
	rows, err := r.db.QueryContext(ctx, q, travelerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*VisitedCity
	for rows.Next() {
		v := new(VisitedCity)
		if err := rows.Scan(&v.ID, &v.Name, &v.CountryName, &v.CurrencyCode); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
