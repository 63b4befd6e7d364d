package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"      // context with timeout bounds the session lookup
	"database/sql" // sql.ErrNoRows marks an invalid or expired session
	"errors"       // errors.Is for sentinel matching
	"net/http"     // cookie handling and redirects
	"time"         // timeout durations

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/avelar/traveler-tracker/internal/model"
	"github.com/avelar/traveler-tracker/internal/repository"
	"github.com/avelar/traveler-tracker/internal/utils"
)

// CookieName is the name of the session cookie handed to the browser. Its
// value is the raw opaque token; only the SHA-256 hash is stored server
// side.
const CookieName = "session"

// travelerKey is the context key under which the authenticated traveler is
// stored for the duration of a request. There is no ambient global: every
// handler reads the traveler from its own request context.
const travelerKey = "traveler"

// LoadTraveler returns middleware that resolves the session cookie into
// the current traveler and stores it in the request context. Requests
// without a cookie, or with an expired/revoked/unknown session, simply
// proceed anonymously; enforcing login is RequireTraveler's job. A broken
// cookie is cleared so the browser stops sending it.
func LoadTraveler(sessions *repository.SessionRepo, travelers *repository.TravelerRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			travelerID, err := sessions.Validate(ctx, utils.HashTokenRaw(cookie.Value))
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					ClearSessionCookie(c)
					return next(c)
				}
				return err
			}
			t, err := travelers.GetByID(ctx, travelerID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					ClearSessionCookie(c)
					return next(c)
				}
				return err
			}
			c.Set(travelerKey, &t)
			return next(c)
		}
	}
}

// RequireTraveler returns middleware that redirects anonymous requests to
// the given location. It must run after LoadTraveler.
func RequireTraveler(redirectTo string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentTraveler(c) == nil {
				return c.Redirect(http.StatusFound, redirectTo)
			}
			return next(c)
		}
	}
}

// CurrentTraveler returns the traveler resolved by LoadTraveler, or nil
// for an anonymous request.
func CurrentTraveler(c echo.Context) *model.Traveler {
	if t, ok := c.Get(travelerKey).(*model.Traveler); ok {
		return t
	}
	return nil
}

// SetSessionCookie attaches a session token to the response. The cookie is
// HttpOnly so scripts cannot read it.
func SetSessionCookie(c echo.Context, token utils.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token.Raw,
		Path:     "/",
		Expires:  token.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
