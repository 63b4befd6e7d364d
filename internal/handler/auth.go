package handler

import (
	"context"      // provides context with cancellation for DB and API calls
	"log"          // startup-free logging for degraded external lookups
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/avelar/traveler-tracker/internal/config"
	"github.com/avelar/traveler-tracker/internal/middleware"
	"github.com/avelar/traveler-tracker/internal/repository"
	"github.com/avelar/traveler-tracker/internal/service"
	"github.com/avelar/traveler-tracker/internal/utils"
)

// defaultCountry pre-selects the country dropdowns on empty forms.
const defaultCountry = "United States of America"

// AuthHandler bundles dependencies for the signup, login and logout routes.
type AuthHandler struct {
	Cfg       config.Config
	Travelers *repository.TravelerRepo
	Sessions  *repository.SessionRepo
	Directory *service.Directory
}

func NewAuthHandler(cfg config.Config, travelers *repository.TravelerRepo, sessions *repository.SessionRepo, directory *service.Directory) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Travelers: travelers, Sessions: sessions, Directory: directory}
}

// SignupForm renders the signup page with the country list from the
// external directory.
func (h *AuthHandler) SignupForm(c echo.Context) error {
	if middleware.CurrentTraveler(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	data := h.signupData(c, "", "", "", defaultCountry)
	return render(c, http.StatusOK, "signup.html", data)
}

// Signup validates the submitted form, creates the traveler and logs them
// in. A duplicate email re-renders the form with an error instead of
// failing the request.
func (h *AuthHandler) Signup(c echo.Context) error {
	first := strings.TrimSpace(c.FormValue("first_name"))
	last := strings.TrimSpace(c.FormValue("last_name"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	country := strings.TrimSpace(c.FormValue("country"))

	if first == "" || last == "" || email == "" || password == "" || country == "" {
		data := h.signupData(c, first, last, email, country)
		data["Flash"] = "All fields are required."
		data["FlashClass"] = "danger"
		return render(c, http.StatusBadRequest, "signup.html", data)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	// Resolve the home country first; its currency code is filled in lazily
	// from the external directory on first reference.
	home, err := h.Directory.ResolveOrCreate(ctx, country)
	if err != nil {
		return errorPage(c, http.StatusInternalServerError, "We could not save your account right now. Please try again.")
	}

	id, err := h.Travelers.Create(ctx, first, last, email, password, &home.ID, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			data := h.signupData(c, first, last, email, country)
			data["Flash"] = "Email already taken"
			data["FlashClass"] = "danger"
			return render(c, http.StatusConflict, "signup.html", data)
		}
		return errorPage(c, http.StatusInternalServerError, "We could not save your account right now. Please try again.")
	}

	if err := h.startSession(c, ctx, id); err != nil {
		return errorPage(c, http.StatusInternalServerError, "Your account was created but logging in failed. Please log in.")
	}
	return c.Redirect(http.StatusFound, "/")
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	if middleware.CurrentTraveler(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return render(c, http.StatusOK, "login.html", echo.Map{"Email": ""})
}

// Login verifies credentials and establishes a session. Unknown email and
// wrong password produce the identical response on purpose.
func (h *AuthHandler) Login(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return render(c, http.StatusBadRequest, "login.html", echo.Map{
			"Email": email, "Flash": "Email and password are required.", "FlashClass": "danger",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Travelers.Authenticate(ctx, email, password)
	if err != nil {
		return errorPage(c, http.StatusInternalServerError, "We could not log you in right now. Please try again.")
	}
	if t == nil {
		return render(c, http.StatusUnauthorized, "login.html", echo.Map{
			"Email": email, "Flash": "Invalid email/password", "FlashClass": "danger",
		})
	}

	if err := h.startSession(c, ctx, t.ID); err != nil {
		return errorPage(c, http.StatusInternalServerError, "We could not log you in right now. Please try again.")
	}
	return c.Redirect(http.StatusFound, "/")
}

// Logout revokes the current session and clears the cookie. It is safe to
// call while anonymous; it just redirects.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Sessions.RevokeByHash(ctx, utils.HashTokenRaw(cookie.Value)); err != nil {
			log.Printf("logout: revoke session failed: %v", err)
		}
	}
	middleware.ClearSessionCookie(c)
	setFlash(c, "success", "Successfully logged out.")
	return c.Redirect(http.StatusFound, "/login")
}

// startSession issues a fresh opaque token, stores its hash and hands the
// raw value to the browser.
func (h *AuthHandler) startSession(c echo.Context, ctx context.Context, travelerID uint64) error {
	token, err := utils.NewSessionToken(h.Cfg.SessionTTLHours)
	if err != nil {
		return err
	}
	if err := h.Sessions.Store(ctx, travelerID, utils.HashTokenRaw(token.Raw), token.Exp); err != nil {
		return err
	}
	middleware.SetSessionCookie(c, token)
	return nil
}

// signupData assembles the template map for the signup page, fetching the
// country choices from the directory. A directory outage degrades to an
// empty list with a warning rather than a failed page.
func (h *AuthHandler) signupData(c echo.Context, first, last, email, country string) echo.Map {
	names, ok := h.countryNames(c)
	data := echo.Map{
		"Countries": names,
		"FirstName": first,
		"LastName":  last,
		"Email":     email,
		"Country":   country,
	}
	if !ok {
		data["Flash"] = "The country list is unavailable right now. Please try again later."
		data["FlashClass"] = "warning"
	}
	return data
}

func (h *AuthHandler) countryNames(c echo.Context) ([]string, bool) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	names, err := h.Directory.CountryNames(ctx)
	if err != nil {
		log.Printf("signup: country directory unavailable: %v", err)
		return []string{}, false
	}
	return names, true
}
