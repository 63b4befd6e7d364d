package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avelar/traveler-tracker/internal/model"
	"github.com/avelar/traveler-tracker/internal/utils"
)

// TravelerRepo encapsulates all database access for traveler accounts.
type TravelerRepo struct{ DB *sql.DB }

func NewTravelerRepo(db *sql.DB) *TravelerRepo { return &TravelerRepo{DB: db} }

// Create inserts a traveler and returns its ID. The password is bcrypt
// hashed here so a plain password never reaches the database layer below.
// A unique-constraint violation on email maps to ErrEmailExists.
func (r *TravelerRepo) Create(ctx context.Context, first, last, email, password string, homeCountryID *uint64, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO travelers (first_name, last_name, email, password_hash, home_country_id) VALUES (?,?,?,?,?)",
		first, last, email, hash, homeCountryID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a traveler by normalized email.
func (r *TravelerRepo) GetByEmail(ctx context.Context, email string) (model.Traveler, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var t model.Traveler
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,first_name,last_name,email,password_hash,home_country_id,created_at,updated_at FROM travelers WHERE email=? LIMIT 1",
		email).Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &t.PasswordHash, &t.HomeCountryID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// GetByID fetches a traveler by id.
func (r *TravelerRepo) GetByID(ctx context.Context, id uint64) (model.Traveler, error) {
	var t model.Traveler
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,first_name,last_name,email,password_hash,home_country_id,created_at,updated_at FROM travelers WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &t.PasswordHash, &t.HomeCountryID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Authenticate looks a traveler up by email and verifies the password
// against the stored bcrypt hash. Unknown email and wrong password are
// deliberately indistinguishable: both return (nil, nil) so callers cannot
// enumerate accounts. A non-nil error means the lookup itself failed.
func (r *TravelerRepo) Authenticate(ctx context.Context, email, password string) (*model.Traveler, error) {
	t, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !utils.VerifyPassword(t.PasswordHash, password) {
		return nil, nil
	}
	return &t, nil
}

// UpdateProfile rewrites the mutable profile fields in a single UPDATE so
// a duplicate-email failure leaves the row untouched. It returns
// ErrEmailExists when the new email collides with a different traveler and
// sql.ErrNoRows when the traveler does not exist.
func (r *TravelerRepo) UpdateProfile(ctx context.Context, id uint64, first, last, email string, homeCountryID uint64) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE travelers SET first_name=?, last_name=?, email=?, home_country_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		first, last, email, homeCountryID, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports zero affected rows both for a missing traveler and
		// for an update that changes nothing; confirm existence before
		// treating it as not-found.
		var exists uint64
		if scanErr := r.DB.QueryRowContext(ctx,
			"SELECT id FROM travelers WHERE id=? LIMIT 1", id).Scan(&exists); scanErr != nil {
			return scanErr
		}
	}
	return nil
}
