// Package handler contains the HTTP handlers for every route the
// application serves. Handlers parse and validate form input, call the
// repositories and services, and render HTML views. The current traveler
// always comes from the request context (set by the session middleware),
// never from any ambient global.
package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelar/traveler-tracker/internal/middleware"
)

// flashCookie is the one-shot cookie carrying a message across a redirect,
// the equivalent of a server-side flash. It is written on redirect and
// cleared by the next render that consumes it.
const flashCookie = "flash"

// setFlash stores a flash message for the next rendered page. class is a
// CSS hint ("success", "danger", "warning").
func setFlash(c echo.Context, class, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(class + "|" + msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns and clears the pending flash message, if any.
func takeFlash(c echo.Context) (class, msg string) {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return "", ""
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	decoded, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", ""
	}
	class, msg, ok := strings.Cut(decoded, "|")
	if !ok {
		return "", decoded
	}
	return class, msg
}

// render executes a template with the given data, injecting the current
// traveler and any pending flash message unless the handler already set
// them. Every template key a page reads must be present in the map, so
// handlers pass complete maps and render only fills the shared ones.
func render(c echo.Context, status int, name string, data echo.Map) error {
	if _, ok := data["Traveler"]; !ok {
		data["Traveler"] = middleware.CurrentTraveler(c)
	}
	if _, ok := data["Flash"]; !ok {
		class, msg := takeFlash(c)
		data["Flash"] = msg
		data["FlashClass"] = class
	}
	return c.Render(status, name, data)
}

// errorPage renders the generic failure page. External-service outages and
// unexpected database errors all land here; the message is the only thing
// the traveler sees, so it stays generic.
func errorPage(c echo.Context, status int, msg string) error {
	return render(c, status, "error.html", echo.Map{"Message": msg})
}
