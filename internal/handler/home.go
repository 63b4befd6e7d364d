package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelar/traveler-tracker/internal/middleware"
	"github.com/avelar/traveler-tracker/internal/repository"
)

// HomeHandler serves the home page and the static info pages.
type HomeHandler struct {
	Assignments *repository.AssignmentRepo
}

func NewHomeHandler(assignments *repository.AssignmentRepo) *HomeHandler {
	return &HomeHandler{Assignments: assignments}
}

// Home lists the cities the logged-in traveler has visited. Anonymous
// requests never reach this handler; the router redirects them to /signup.
func (h *HomeHandler) Home(c echo.Context) error {
	t := middleware.CurrentTraveler(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cities, err := h.Assignments.ListVisited(ctx, t.ID)
	if err != nil {
		return errorPage(c, http.StatusInternalServerError, "We could not load your cities right now. Please try again.")
	}
	return render(c, http.StatusOK, "index.html", echo.Map{"Cities": cities})
}

// Help renders the usage instructions.
func (h *HomeHandler) Help(c echo.Context) error {
	return render(c, http.StatusOK, "help.html", echo.Map{})
}

// Secret renders the easter-egg page.
func (h *HomeHandler) Secret(c echo.Context) error {
	return render(c, http.StatusOK, "secret.html", echo.Map{})
}
