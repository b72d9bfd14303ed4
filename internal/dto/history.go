package dto

import "github.com/leadscope/opportunity-finder/api/internal/entity"

// HistoryFilter contains query parameters for the search history endpoint.
type HistoryFilter struct {
	Page    int
	PerPage int
}

// HistoryResponse lists a user's recent searches.
type HistoryResponse struct {
	Success  bool                  `json:"success"`
	Searches []entity.SearchRecord `json:"searches"`
}
