package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadscope/opportunity-finder/api/internal/auth"
	"github.com/leadscope/opportunity-finder/api/internal/config"
	"github.com/leadscope/opportunity-finder/api/internal/handler"
	middlewarepkg "github.com/leadscope/opportunity-finder/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	Search       *handler.SearchHandler
	Autocomplete *handler.AutocompleteHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/search/businesses", handlers.Search.Search, middlewarepkg.SearchRateLimiter(cfg.RateLimitSearch))
	secured.GET("/search/history", handlers.Search.History)
	secured.GET("/places/autocomplete", handlers.Autocomplete.Autocomplete)
}
