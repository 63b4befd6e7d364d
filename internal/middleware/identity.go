package middleware

// identity.go defines helper functions shared across middleware files.
// rateIdentity derives the identity component of rate-limiter keys from the
// traveler LoadTraveler put in the request context. Login and signup
// attempts are anonymous, so they fall back to "guest" and get bucketed
// by IP.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// rateIdentity returns the current traveler's id as a string, or "guest"
// when the request is anonymous.
func rateIdentity(c echo.Context) string {
	if t := CurrentTraveler(c); t != nil {
		return strconv.FormatUint(t.ID, 10)
	}
	return "guest"
}
