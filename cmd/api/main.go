package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/leadscope/opportunity-finder/api/internal/auth"
	"github.com/leadscope/opportunity-finder/api/internal/config"
	"github.com/leadscope/opportunity-finder/api/internal/database"
	"github.com/leadscope/opportunity-finder/api/internal/handler"
	middlewarepkg "github.com/leadscope/opportunity-finder/api/internal/middleware"
	"github.com/leadscope/opportunity-finder/api/internal/places"
	"github.com/leadscope/opportunity-finder/api/internal/repository"
	"github.com/leadscope/opportunity-finder/api/internal/router"
	"github.com/leadscope/opportunity-finder/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	subscriptionsRepo := repository.NewPGXSubscriptionsRepository(pool)
	searchesRepo := repository.NewPGXSearchesRepository(pool)

	placesClient := places.NewClient(cfg.PlacesAPIKey, places.WithTimeout(cfg.PlacesTimeout))

	quota := service.NewQuotaGuard(subscriptionsRepo, searchesRepo, cfg.PlanAllowances)
	authService := service.NewAuthService(usersRepo, subscriptionsRepo, jwtManager)
	searchService := service.NewSearchService(placesClient, quota, searchesRepo,
		service.WithDetailConcurrency(cfg.DetailConcurrency))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Search:       handler.NewSearchHandler(searchService),
		Autocomplete: handler.NewAutocompleteHandler(placesClient),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
