package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api"
	defaultTimeout = 10 * time.Second

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"

	// MetersPerMile converts the caller's mile radius to the meters the API expects.
	MetersPerMile = 1609.34
)

var (
	// ErrNotConfigured is returned when the client has no API key.
	ErrNotConfigured = errors.New("places api key not configured")
	// ErrNoResults is returned by Geocode when the address resolves to nothing.
	ErrNoResults = errors.New("no results for query")
)

// StatusError reports a non-OK status from the upstream API. The raw response
// body is never included so it cannot leak to callers.
type StatusError struct {
	Endpoint string
	Status   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("places %s: upstream status %s", e.Endpoint, e.Status)
}

// Client calls the Google Maps web services. All requests share one rate
// limiter so concurrent strategy and detail calls stay within upstream limits.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
	timeout    time.Duration
}

// Option configures optional client dependencies.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithBaseURL points the client at a different base URL (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRateLimit caps outbound calls per second.
func WithRateLimit(perSecond int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

// NewClient builds a Maps client with sane defaults.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geocode resolves a free-text address to a coordinate.
func (c *Client) Geocode(ctx context.Context, address string) (Coordinate, error) {
	params := url.Values{}
	params.Set("address", address)

	var resp geocodeResponse
	if err := c.get(ctx, "/geocode/json", params, &resp); err != nil {
		return Coordinate{}, err
	}

	if resp.Status == statusZeroResults || len(resp.Results) == 0 {
		return Coordinate{}, ErrNoResults
	}
	if resp.Status != statusOK {
		return Coordinate{}, &StatusError{Endpoint: "geocode", Status: resp.Status}
	}

	return resp.Results[0].Geometry.Location, nil
}

// NearbySearch runs a keyword proximity search around the origin.
func (c *Client) NearbySearch(ctx context.Context, origin Coordinate, radiusMeters float64, keyword string) ([]Place, error) {
	params := url.Values{}
	params.Set("location", formatCoordinate(origin))
	params.Set("radius", strconv.Itoa(int(radiusMeters)))
	params.Set("keyword", keyword)

	var resp searchResponse
	if err := c.get(ctx, "/place/nearbysearch/json", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case statusOK:
		return resp.Results, nil
	case statusZeroResults:
		return nil, nil
	default:
		return nil, &StatusError{Endpoint: "nearbysearch", Status: resp.Status}
	}
}

// TextSearch runs a free-text search, optionally biased to an origin.
func (c *Client) TextSearch(ctx context.Context, query string, origin *Coordinate, radiusMeters float64) ([]Place, error) {
	params := url.Values{}
	params.Set("query", query)
	if origin != nil {
		params.Set("location", formatCoordinate(*origin))
	}
	if radiusMeters > 0 {
		params.Set("radius", strconv.Itoa(int(radiusMeters)))
	}

	var resp searchResponse
	if err := c.get(ctx, "/place/textsearch/json", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case statusOK:
		return resp.Results, nil
	case statusZeroResults:
		return nil, nil
	default:
		return nil, &StatusError{Endpoint: "textsearch", Status: resp.Status}
	}
}

// detailFields is the exact field set requested per place; anything beyond
// these is billed at a higher SKU.
const detailFields = "name,formatted_phone_number,international_phone_number,website,opening_hours,price_level,photos,url,rating,user_ratings_total,business_status"

// Details fetches the full attribute record for one place.
func (c *Client) Details(ctx context.Context, placeID string) (*Detail, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)

	var resp detailsResponse
	if err := c.get(ctx, "/place/details/json", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != statusOK || resp.Result == nil {
		return nil, &StatusError{Endpoint: "details", Status: resp.Status}
	}

	return resp.Result, nil
}

// Autocomplete suggests cities for a partial input.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]Prediction, error) {
	params := url.Values{}
	params.Set("input", input)
	params.Set("types", "(cities)")
	params.Set("components", "country:us")

	var resp autocompleteResponse
	if err := c.get(ctx, "/place/autocomplete/json", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case statusOK:
		return resp.Predictions, nil
	case statusZeroResults:
		return nil, nil
	default:
		return nil, &StatusError{Endpoint: "autocomplete", Status: resp.Status}
	}
}

// get performs one rate-limited, timeout-bounded API call and decodes the body.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("places rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build places request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &StatusError{Endpoint: path, Status: http.StatusText(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}

	return nil
}

func formatCoordinate(c Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}
