// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for the countries table. Countries
// follow find-or-create semantics: at most one row exists per distinct name
// and a row, once created, is never re-fetched from the external directory.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to match sentinel error values
	"strings"      // strings is used to detect duplicate-key errors

	"github.com/avelar/traveler-tracker/internal/model"
)

// CountryRepo encapsulates all database queries related to countries. It
// depends on a sql.DB connection which should be configured elsewhere.
type CountryRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCountryRepo constructs a CountryRepo with the provided DB handle. This
// function allows dependency injection of the database in tests and at
// startup. There is no initialization logic beyond assigning the field.
func NewCountryRepo(db *sql.DB) *CountryRepo {
	return &CountryRepo{db: db}
}

// GetByName fetches a country by its exact name. It returns
// ErrCountryNotFound if no row matches.
func (r *CountryRepo) GetByName(ctx context.Context, name string) (*model.Country, error) {
	const q = "SELECT id, name, COALESCE(currency_code, ''), created_at FROM countries WHERE name = ?"
	var c model.Country
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&c.ID, &c.Name, &c.CurrencyCode, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByID fetches a country by its ID. It returns ErrCountryNotFound if no
// row matches; profile pages use it to display the home country.
func (r *CountryRepo) GetByID(ctx context.Context, id uint64) (*model.Country, error) {
	const q = "SELECT id, name, COALESCE(currency_code, ''), created_at FROM countries WHERE id = ?"
	var c model.Country
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.CurrencyCode, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new country. An empty currency code is stored as NULL.
// Two requests may race to create the same name; the loser of the race hits
// the unique constraint and falls back to selecting the winner's row, so
// callers always get the single canonical row for the name.
func (r *CountryRepo) Create(ctx context.Context, name, currencyCode string) (*model.Country, error) {
	var code interface{}
	if currencyCode != "" {
		code = currencyCode
	}
	const qInsert = "INSERT INTO countries (name, currency_code) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, name, code)
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
