package entity

import (
	"time"

	"github.com/google/uuid"
)

// SearchRecord is the append-only usage fact written once per completed search.
// It is never updated or deleted; quota accounting counts these rows.
type SearchRecord struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Location     string    `json:"location"`
	BusinessType string    `json:"business_type"`
	RadiusMiles  float64   `json:"radius_miles"`
	MaxResults   int       `json:"max_results"`
	ResultsCount int       `json:"results_count"`
	SearchedAt   time.Time `json:"searched_at"`
}
