package router // package router defines how HTTP routes are registered for the app

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/avelar/traveler-tracker/internal/handler"    // import the handlers that implement business logic
	"github.com/avelar/traveler-tracker/internal/middleware" // import middleware for session authentication
)

// RegisterRoutes registers routes that never require authentication on the
// provided Echo instance: the health check and the static info pages.
func RegisterRoutes(e *echo.Echo, home *handler.HomeHandler) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
	e.GET("/help", home.Help)
	e.GET("/secret", home.Secret)
}

// RegisterAuth registers the signup/login/logout routes.  The limiter is
// applied only to the two POST endpoints that accept credentials; the GET
// form pages stay unthrottled.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	e.GET("/signup", a.SignupForm)
	e.POST("/signup", a.Signup, limiter)
	e.GET("/login", a.LoginForm)
	e.POST("/login", a.Login, limiter)
	e.GET("/logout", a.Logout)
}

// RegisterTravel registers every route that requires a logged-in traveler.
// The home page redirects anonymous visitors to /signup (first contact);
// everything else sends them to /login.
func RegisterTravel(e *echo.Echo, home *handler.HomeHandler, p *handler.ProfileHandler, ch *handler.CityHandler) {
	e.GET("/", home.Home, middleware.RequireTraveler("/signup"))

	g := e.Group("", middleware.RequireTraveler("/login"))
	g.GET("/current_traveler", p.Form)
	g.POST("/current_traveler", p.Update)
	g.GET("/city/add", ch.AddForm)
	g.POST("/city/add", ch.AddSubmit)
	g.POST("/verified", ch.Verified)
	g.POST("/city/:id/remove", ch.Remove)
}
