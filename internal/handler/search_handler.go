package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/leadscope/opportunity-finder/api/internal/dto"
	"github.com/leadscope/opportunity-finder/api/internal/middleware"
	"github.com/leadscope/opportunity-finder/api/internal/service"
)

const (
	defaultRadiusMiles = 10
	defaultMaxResults  = 20
)

// SearchHandler exposes the business discovery endpoints.
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles POST /search/businesses requests.
func (h *SearchHandler) Search(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, KindAuth, "invalid token subject")
	}

	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, KindValidation, "invalid payload")
	}
	if req.RadiusMiles == 0 {
		req.RadiusMiles = defaultRadiusMiles
	}
	if req.MaxResults == 0 {
		req.MaxResults = defaultMaxResults
	}

	resp, err := h.searchService.Search(c.Request().Context(), userID, req)
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// History handles GET /search/history requests.
func (h *SearchHandler) History(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, KindAuth, "invalid token subject")
	}

	filter := dto.HistoryFilter{
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 20),
	}

	records, err := h.searchService.History(c.Request().Context(), userID, filter)
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.HistoryResponse{Success: true, Searches: records})
}

// callerID extracts the authenticated user's id placed in the context by the
// JWT middleware.
func callerID(c echo.Context) (uuid.UUID, error) {
	subject, _ := c.Get(middleware.ContextKeyUserID).(string)
	return uuid.Parse(strings.TrimSpace(subject))
}

func parseIntDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
