package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelar/traveler-tracker/internal/geo"
	"github.com/avelar/traveler-tracker/internal/middleware"
	"github.com/avelar/traveler-tracker/internal/repository"
	"github.com/avelar/traveler-tracker/internal/service"
)

// CityHandler drives the two-step add-city flow (propose, confirm) and
// city removal.
type CityHandler struct {
	Search    *geo.CitySearch
	Directory *service.Directory
	Travel    *service.Travel
}

func NewCityHandler(search *geo.CitySearch, directory *service.Directory, travel *service.Travel) *CityHandler {
	return &CityHandler{Search: search, Directory: directory, Travel: travel}
}

// AddForm renders the add-city form with the country list.
func (h *CityHandler) AddForm(c echo.Context) error {
	data := h.addCityData(c, defaultCountry, "")
	return render(c, http.StatusOK, "add_city.html", data)
}

// AddSubmit runs the verification step. A match renders the confirmation
// view with the canonical name the search service returned; no match
// re-renders the form with a corrective message. Nothing is persisted
// either way; the proposal only lives in the rendered page.
func (h *CityHandler) AddSubmit(c echo.Context) error {
	city := strings.TrimSpace(c.FormValue("city_name"))
	country := strings.TrimSpace(c.FormValue("country"))
	if city == "" || country == "" {
		data := h.addCityData(c, country, city)
		data["Flash"] = "Country and city name are required."
		data["FlashClass"] = "danger"
		return render(c, http.StatusBadRequest, "add_city.html", data)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	matched, ok, err := h.Search.Verify(ctx, city, country)
	if err != nil {
		log.Printf("add-city: verification call failed: %v", err)
		return errorPage(c, http.StatusBadGateway, "The city lookup service is unavailable right now. Please try again later.")
	}
	if !ok {
		data := h.addCityData(c, country, city)
		data["Flash"] = fmt.Sprintf("Could not find %s in %s. Please re-enter the city or choose another country.", city, country)
		data["FlashClass"] = "warning"
		return render(c, http.StatusOK, "add_city.html", data)
	}

	return render(c, http.StatusOK, "verify_city.html", echo.Map{
		"CityName":    matched,
		"CountryName": country,
	})
}

// Verified commits a confirmed city: resolve/create the country, find or
// create the city, link it to the traveler.
func (h *CityHandler) Verified(c echo.Context) error {
	t := middleware.CurrentTraveler(c)
	city := strings.TrimSpace(c.FormValue("city_name"))
	country := strings.TrimSpace(c.FormValue("country_name"))
	if city == "" || country == "" {
		return c.Redirect(http.StatusFound, "/city/add")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	created, err := h.Travel.AddVerifiedCity(ctx, t.ID, city, country)
	if err != nil {
		return errorPage(c, http.StatusInternalServerError, "We could not add the city right now. Please try again.")
	}
	if created {
		setFlash(c, "success", "New city added!")
	} else {
		setFlash(c, "warning", "That city is already in your list.")
	}
	return c.Redirect(http.StatusFound, "/")
}

// Remove deletes the traveler's link to a city and cleans up the city row
// when it was the last link.
func (h *CityHandler) Remove(c echo.Context) error {
	t := middleware.CurrentTraveler(c)
	cityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errorPage(c, http.StatusNotFound, "That city does not exist.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Travel.RemoveCity(ctx, t.ID, cityID); err != nil {
		if errors.Is(err, repository.ErrCityNotFound) || errors.Is(err, sql.ErrNoRows) {
			return errorPage(c, http.StatusNotFound, "That city is not in your list.")
		}
		return errorPage(c, http.StatusInternalServerError, "We could not remove the city right now. Please try again.")
	}
	return c.Redirect(http.StatusFound, "/")
}

func (h *CityHandler) addCityData(c echo.Context, country, city string) echo.Map {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	names, err := h.Directory.CountryNames(ctx)
	data := echo.Map{
		"Countries": names,
		"Country":   country,
		"CityName":  city,
	}
	if err != nil {
		log.Printf("add-city: country directory unavailable: %v", err)
		data["Countries"] = []string{}
		data["Flash"] = "The country list is unavailable right now. Please try again later."
		data["FlashClass"] = "warning"
	}
	return data
}
