package handler

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/leadscope/opportunity-finder/api/internal/dto"
	"github.com/leadscope/opportunity-finder/api/internal/places"
)

const (
	autocompleteMinInput   = 2
	autocompleteMaxResults = 5
)

// Autocompleter is the slice of the places client the handler needs.
type Autocompleter interface {
	Autocomplete(ctx context.Context, input string) ([]places.Prediction, error)
}

// AutocompleteHandler serves city suggestions for the search form.
type AutocompleteHandler struct {
	places Autocompleter
}

// NewAutocompleteHandler constructs an AutocompleteHandler.
func NewAutocompleteHandler(placesClient Autocompleter) *AutocompleteHandler {
	return &AutocompleteHandler{places: placesClient}
}

// Autocomplete handles GET /places/autocomplete requests. Short inputs and
// upstream failures both return an empty suggestion list: the endpoint is a
// typing aid and must never surface an error to the form.
func (h *AutocompleteHandler) Autocomplete(c echo.Context) error {
	input := strings.TrimSpace(c.QueryParam("input"))
	if len(input) < autocompleteMinInput {
		return c.JSON(http.StatusOK, dto.AutocompleteResponse{Success: true, Predictions: []dto.Prediction{}})
	}

	predictions, err := h.places.Autocomplete(c.Request().Context(), input)
	if err != nil {
		log.Printf("autocomplete failed for %q: %v", input, err)
		return c.JSON(http.StatusOK, dto.AutocompleteResponse{Success: true, Predictions: []dto.Prediction{}})
	}

	if len(predictions) > autocompleteMaxResults {
		predictions = predictions[:autocompleteMaxResults]
	}

	out := make([]dto.Prediction, 0, len(predictions))
	for _, p := range predictions {
		out = append(out, dto.Prediction{
			Description:   p.Description,
			PlaceID:       p.PlaceID,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		})
	}

	return c.JSON(http.StatusOK, dto.AutocompleteResponse{Success: true, Predictions: out})
}
