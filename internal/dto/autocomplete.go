package dto

// Prediction is one autocomplete suggestion.
type Prediction struct {
	Description   string `json:"description"`
	PlaceID       string `json:"place_id"`
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

// AutocompleteResponse lists city suggestions for a partial input.
type AutocompleteResponse struct {
	Success     bool         `json:"success"`
	Predictions []Prediction `json:"predictions"`
}
