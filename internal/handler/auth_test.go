package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelar/traveler-tracker/internal/config"
	"github.com/avelar/traveler-tracker/internal/middleware"
	"github.com/avelar/traveler-tracker/internal/repository"
	"github.com/avelar/traveler-tracker/internal/service"
	"github.com/avelar/traveler-tracker/internal/utils"
	"github.com/avelar/traveler-tracker/internal/view"
)

// fakeCountries is a canned external country directory for handler tests.
type fakeCountries struct {
	names    []string
	currency map[string]string
	err      error
}

func (f *fakeCountries) ListNames(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

func (f *fakeCountries) LookupCurrency(ctx context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.currency[name], nil
}

const selectTraveler = "SELECT id,first_name,last_name,email,password_hash,home_country_id,created_at,updated_at FROM travelers WHERE email=? LIMIT 1"

func travelerCols() []string {
	return []string{"id", "first_name", "last_name", "email", "password_hash", "home_country_id", "created_at", "updated_at"}
}

// newAuthFixture builds an AuthHandler over a mocked database and a fake
// external directory, with the real template renderer so the asserted HTML
// is what travelers actually see.
func newAuthFixture(t *testing.T, countries *fakeCountries) (*AuthHandler, sqlmock.Sqlmock, *echo.Echo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := echo.New()
	renderer, err := view.New()
	require.NoError(t, err)
	e.Renderer = renderer

	cfg := config.Config{SessionTTLHours: 48, BcryptCost: bcrypt.MinCost}
	directory := service.NewDirectory(repository.NewCountryRepo(db), countries)
	h := NewAuthHandler(cfg, repository.NewTravelerRepo(db), repository.NewSessionRepo(db), directory)
	return h, mock, e
}

func postForm(e *echo.Echo, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.CookieName {
			return cookie
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	now := time.Now()
	hash, err := utils.HashPassword("open sesame", bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("valid credentials start a session and redirect home", func(t *testing.T) {
		h, mock, e := newAuthFixture(t, &fakeCountries{})

		mock.ExpectQuery(regexp.QuoteMeta(selectTraveler)).
			WithArgs("mickey@disney.com").
			WillReturnRows(sqlmock.NewRows(travelerCols()).
				AddRow(7, "Mickey", "Mouse", "mickey@disney.com", hash, 1, now, now))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (traveler_id, token_hash, expires_at) VALUES (?,?,?)")).
			WithArgs(uint64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		c, rec := postForm(e, "/login", url.Values{
			"email":    {"Mickey@Disney.com"}, // normalized before lookup
			"password": {"open sesame"},
		})
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie, "login must set the session cookie")
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong password re-renders the form with a generic error", func(t *testing.T) {
		h, mock, e := newAuthFixture(t, &fakeCountries{})

		mock.ExpectQuery(regexp.QuoteMeta(selectTraveler)).
			WithArgs("mickey@disney.com").
			WillReturnRows(sqlmock.NewRows(travelerCols()).
				AddRow(7, "Mickey", "Mouse", "mickey@disney.com", hash, 1, now, now))

		c, rec := postForm(e, "/login", url.Values{
			"email":    {"mickey@disney.com"},
			"password": {"guessing"},
		})
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email/password")
		assert.Nil(t, sessionCookie(rec))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown email gets the identical response", func(t *testing.T) {
		h, mock, e := newAuthFixture(t, &fakeCountries{})

		mock.ExpectQuery(regexp.QuoteMeta(selectTraveler)).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows(travelerCols()))

		c, rec := postForm(e, "/login", url.Values{
			"email":    {"nobody@example.com"},
			"password": {"whatever"},
		})
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email/password")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing fields are rejected before touching the database", func(t *testing.T) {
		h, mock, e := newAuthFixture(t, &fakeCountries{})

		c, rec := postForm(e, "/login", url.Values{"email": {"mickey@disney.com"}})
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSignup(t *testing.T) {
	now := time.Now()
	countries := func() *fakeCountries {
		return &fakeCountries{
			names:    []string{"Japan", "United States of America"},
			currency: map[string]string{"Japan": "JPY"},
		}
	}
	form := func() url.Values {
		return url.Values{
			"first_name": {"Mickey"},
			"last_name":  {"Mouse"},
			"email":      {"mickey@disney.com"},
			"password":   {"open sesame"},
			"country":    {"Japan"},
		}
	}

	t.Run("new traveler is created and logged in", func(t *testing.T) {
		h, mock, e := newAuthFixture(t, countries())

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, COALESCE(currency_code, ''), created_at FROM countries WHERE name = ?")).
			WithArgs("Japan").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "currency_code", "created_at"}).
				AddRow(2, "Japan", "JPY", now))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO travelers (first_name, last_name, email, password_hash, home_country_id) VALUES (?,?,?,?,?)")).
			WithArgs("Mickey", "Mouse", "mickey@disney.com", sqlmock.AnyArg(), uint64(2)).
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (traveler_id, token_hash, expires_at) VALUES (?,?,?)")).
			WithArgs(uint64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		c, rec := postForm(e, "/signup", form())
		require.NoError(t, h.Signup(c))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
		require.NotNil(t, sessionCookie(rec))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email re-renders the form with an error", func(t *testing.T) {
		h, mock, e := newAuthFixture(t, countries())

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, COALESCE(currency_code, ''), created_at FROM countries WHERE name = ?")).
			WithArgs("Japan").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "currency_code", "created_at"}).
				AddRow(2, "Japan", "JPY", now))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO travelers")).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'mickey@disney.com' for key 'uq_travelers_email'"))

		c, rec := postForm(e, "/signup", form())
		require.NoError(t, h.Signup(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email already taken")
		assert.Nil(t, sessionCookie(rec))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("incomplete form is rejected with the field error", func(t *testing.T) {
		h, mock, e := newAuthFixture(t, countries())

		incomplete := form()
		incomplete.Del("password")
		c, rec := postForm(e, "/signup", incomplete)
		require.NoError(t, h.Signup(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "All fields are required.")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLogout(t *testing.T) {
	h, mock, e := newAuthFixture(t, &fakeCountries{})

	raw := "deadbeef"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL")).
		WithArgs(utils.HashTokenRaw(raw)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: raw})
	rec := httptest.NewRecorder()
	require.NoError(t, h.Logout(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge, "logout must expire the session cookie")
	require.NoError(t, mock.ExpectationsWereMet())
}
