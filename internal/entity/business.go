package entity

// PhoneUnavailable is the sentinel used when no phone number could be resolved
// for a business. The scorer treats it as a missing-contact signal.
const PhoneUnavailable = "Phone not available"

// Opportunity tiers derived from the score.
const (
	OpportunityLow    = "low"
	OpportunityMedium = "medium"
	OpportunityHigh   = "high"
)

// Business is one scored search result. It is assembled once per pipeline run
// and immutable afterwards; nothing here is persisted.
type Business struct {
	PlaceID        string   `json:"place_id"`
	Name           string   `json:"name"`
	Category       string   `json:"type"`
	Address        string   `json:"address"`
	Phone          string   `json:"phone"`
	Website        *string  `json:"website"`
	Rating         float64  `json:"rating"`
	Reviews        int      `json:"reviews"`
	Hours          []string `json:"hours,omitempty"`
	PhotosCount    int      `json:"photos_count"`
	BusinessStatus string   `json:"business_status"`
	PriceLevel     *int     `json:"price_level,omitempty"`
	DistanceMiles  float64  `json:"distance_miles"`
	Score          int      `json:"score"`
	Opportunity    string   `json:"opportunity"`
	MapURL         string   `json:"google_maps_url"`
}
