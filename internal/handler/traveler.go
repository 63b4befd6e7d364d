package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelar/traveler-tracker/internal/middleware"
	"github.com/avelar/traveler-tracker/internal/repository"
	"github.com/avelar/traveler-tracker/internal/service"
)

// ProfileHandler serves the profile-update form for the logged-in
// traveler.
type ProfileHandler struct {
	Travelers *repository.TravelerRepo
	Countries *repository.CountryRepo
	Directory *service.Directory
}

func NewProfileHandler(travelers *repository.TravelerRepo, countries *repository.CountryRepo, directory *service.Directory) *ProfileHandler {
	return &ProfileHandler{Travelers: travelers, Countries: countries, Directory: directory}
}

// Form renders the profile form pre-filled with the traveler's current
// values, including their stored home country.
func (h *ProfileHandler) Form(c echo.Context) error {
	t := middleware.CurrentTraveler(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	country := ""
	if t.HomeCountryID != nil {
		if home, err := h.Countries.GetByID(ctx, *t.HomeCountryID); err == nil {
			country = home.Name
		}
	}
	data := h.profileData(c, t.FirstName, t.LastName, t.Email, country)
	return render(c, http.StatusOK, "update_traveler.html", data)
}

// Update applies the submitted profile changes. A duplicate email
// re-renders the form with an error; the single-statement update means a
// failed attempt changes nothing.
func (h *ProfileHandler) Update(c echo.Context) error {
	t := middleware.CurrentTraveler(c)

	first := strings.TrimSpace(c.FormValue("first_name"))
	last := strings.TrimSpace(c.FormValue("last_name"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	country := strings.TrimSpace(c.FormValue("country"))

	if first == "" || last == "" || email == "" || country == "" {
		data := h.profileData(c, first, last, email, country)
		data["Flash"] = "All fields are required."
		data["FlashClass"] = "danger"
		return render(c, http.StatusBadRequest, "update_traveler.html", data)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	home, err := h.Directory.ResolveOrCreate(ctx, country)
	if err != nil {
		return errorPage(c, http.StatusInternalServerError, "We could not save your changes right now. Please try again.")
	}

	if err := h.Travelers.UpdateProfile(ctx, t.ID, first, last, email, home.ID); err != nil {
		if err == repository.ErrEmailExists {
			data := h.profileData(c, first, last, email, country)
			data["Flash"] = "Email already taken"
			data["FlashClass"] = "danger"
			return render(c, http.StatusConflict, "update_traveler.html", data)
		}
		return errorPage(c, http.StatusInternalServerError, "We could not save your changes right now. Please try again.")
	}

	setFlash(c, "success", "Updated info!")
	return c.Redirect(http.StatusFound, "/")
}

func (h *ProfileHandler) profileData(c echo.Context, first, last, email, country string) echo.Map {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	names, err := h.Directory.CountryNames(ctx)
	data := echo.Map{
		"Countries": names,
		"FirstName": first,
		"LastName":  last,
		"Email":     email,
		"Country":   country,
	}
	if err != nil {
		log.Printf("profile: country directory unavailable: %v", err)
		data["Countries"] = []string{}
		data["Flash"] = "The country list is unavailable right now. Please try again later."
		data["FlashClass"] = "warning"
	}
	return data
}
