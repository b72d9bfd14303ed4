package places

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry wraps the location of a place result.
type Geometry struct {
	Location Coordinate `json:"location"`
}

// Photo is one photo reference attached to a place.
type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// OpeningHours carries the provider's structured weekly hours.
type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// Place is a candidate returned by nearby or text search.
type Place struct {
	PlaceID          string    `json:"place_id"`
	Name             string    `json:"name"`
	BusinessStatus   string    `json:"business_status,omitempty"`
	Geometry         *Geometry `json:"geometry,omitempty"`
	Rating           float64   `json:"rating,omitempty"`
	UserRatingsTotal int       `json:"user_ratings_total,omitempty"`
	Vicinity         string    `json:"vicinity,omitempty"`
	FormattedAddress string    `json:"formatted_address,omitempty"`
	Types            []string  `json:"types,omitempty"`
	Photos           []Photo   `json:"photos,omitempty"`
	PriceLevel       *int      `json:"price_level,omitempty"`
}

// Detail is the full attribute record fetched per place.
type Detail struct {
	Name                     string        `json:"name"`
	FormattedPhoneNumber     string        `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string        `json:"international_phone_number,omitempty"`
	Website                  string        `json:"website,omitempty"`
	OpeningHours             *OpeningHours `json:"opening_hours,omitempty"`
	PriceLevel               *int          `json:"price_level,omitempty"`
	Photos                   []Photo       `json:"photos,omitempty"`
	URL                      string        `json:"url,omitempty"`
	Rating                   float64       `json:"rating,omitempty"`
	UserRatingsTotal         int           `json:"user_ratings_total,omitempty"`
	BusinessStatus           string        `json:"business_status,omitempty"`
}

// Prediction is one autocomplete suggestion.
type Prediction struct {
	Description          string `json:"description"`
	PlaceID              string `json:"place_id"`
	StructuredFormatting struct {
		MainText      string `json:"main_text"`
		SecondaryText string `json:"secondary_text"`
	} `json:"structured_formatting"`
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry Geometry `json:"geometry"`
	} `json:"results"`
}

type searchResponse struct {
	Status  string  `json:"status"`
	Results []Place `json:"results"`
}

type detailsResponse struct {
	Status string  `json:"status"`
	Result *Detail `json:"result"`
}

type autocompleteResponse struct {
	Status      string       `json:"status"`
	Predictions []Prediction `json:"predictions"`
}
