package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/avelar/traveler-tracker/internal/config"
	"github.com/avelar/traveler-tracker/internal/database"
	"github.com/avelar/traveler-tracker/internal/geo"
	"github.com/avelar/traveler-tracker/internal/handler"
	"github.com/avelar/traveler-tracker/internal/middleware"
	"github.com/avelar/traveler-tracker/internal/queue"
	"github.com/avelar/traveler-tracker/internal/repository"
	"github.com/avelar/traveler-tracker/internal/router"
	"github.com/avelar/traveler-tracker/internal/service"
	"github.com/avelar/traveler-tracker/internal/view"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis backs the rate limiter and the country-directory cache.  A nil
	// client disables both; the app keeps working without them.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and directory cache disabled")
	}

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	travelers := repository.NewTravelerRepo(db)
	sessions := repository.NewSessionRepo(db)
	countries := repository.NewCountryRepo(db)
	cities := repository.NewCityRepo(db)
	assignments := repository.NewAssignmentRepo(db)

	directory := service.NewDirectory(countries, geo.NewCountryDirectory(rdb, config.LoadCacheConfig()))
	travel := service.NewTravel(directory, cities, assignments)
	search := geo.NewCitySearch(cfg.WeatherAPIKey)

	auth := handler.NewAuthHandler(cfg, travelers, sessions, directory)
	profile := handler.NewProfileHandler(travelers, countries, directory)
	city := handler.NewCityHandler(search, directory, travel)
	home := handler.NewHomeHandler(assignments)

	e := echo.New()
	e.Renderer = renderer
	e.Use(middleware.LoadTraveler(sessions, travelers))

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterRoutes(e, home)
	router.RegisterAuth(e, auth, limiter)
	router.RegisterTravel(e, home, profile, city)

	// The activity consumer tails the city.activity queue and appends to
	// logs/activity.log.  It reconnects forever on its own.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
