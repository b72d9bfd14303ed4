package dto

import "github.com/leadscope/opportunity-finder/api/internal/entity"

// SearchRequest is the payload for the business search endpoint.
type SearchRequest struct {
	Location     string  `json:"location"`
	BusinessType string  `json:"businessType"`
	RadiusMiles  float64 `json:"radius"`
	MaxResults   int     `json:"maxResults"`
}

// SearchResponse is the success envelope of a completed search.
type SearchResponse struct {
	Success    bool              `json:"success"`
	Results    []entity.Business `json:"results"`
	TotalFound int               `json:"total_found"`
	Showing    int               `json:"showing"`
}
