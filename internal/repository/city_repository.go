// This file defines repository methods for the cities table. Cities are
// shared, reference-counted resources: a row is created lazily on the first
// successful add and deleted when the last traveler_cities link referencing
// it disappears. The orphan check is an explicit count inside a
// transaction rather than a schema-level cascade, so the deletion rule is
// visible in code.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avelar/traveler-tracker/internal/model"
)

// CityRepo encapsulates all database queries related to cities.
type CityRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCityRepo constructs a CityRepo with the provided DB handle.
func NewCityRepo(db *sql.DB) *CityRepo {
	return &CityRepo{db: db}
}

// GetByName fetches a city by its exact name. Names are unique globally,
// so a single row answers the lookup regardless of country. It returns
// ErrCityNotFound if no row matches.
func (r *CityRepo) GetByName(ctx context.Context, name string) (*model.City, error) {
	const q = "SELECT id, name, country_id, created_at FROM cities WHERE name = ?"
	var c model.City
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&c.ID, &c.Name, &c.CountryID, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByID fetches a city by its ID. It returns ErrCityNotFound if no row
// matches.
func (r *CityRepo) GetByID(ctx context.Context, id uint64) (*model.City, error) {
	const q = "SELECT id, name, country_id, created_at FROM cities WHERE id = ?"
	var c model.City
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.CountryID, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindOrCreate returns the existing city with the given name or inserts a
// new one linked to countryID. Like countries, a lost race on the unique
// name constraint falls back to selecting the existing row.
func (r *CityRepo) FindOrCreate(ctx context.Context, name string, countryID uint64) (*model.City, error) {
	city, err := r.GetByName(ctx, name)
	if err == nil {
		return city, nil
	}
	if !errors.Is(err, ErrCityNotFound) {
		return nil, err
	}
	const qInsert = "INSERT INTO cities (name, country_id) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, name, countryID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return r.GetByName(ctx, name)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// DeleteIfOrphaned removes a city when no traveler_cities row references it
// any more. The count and the delete run in one transaction so a
// concurrent assign cannot slip between the check and the removal. It
// reports whether the city was actually deleted.
func (r *CityRepo) DeleteIfOrphaned(ctx context.Context, cityID uint64) (deleted bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var refs int
	if err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM traveler_cities WHERE city_id = ?", cityID).Scan(&refs); err != nil {
		return false, err
	}
	if refs > 0 {
		return false, nil
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM cities WHERE id = ?", cityID); err != nil {
		return false, err
	}
	return true, nil
}
