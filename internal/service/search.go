package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/leadscope/opportunity-finder/api/internal/dto"
	"github.com/leadscope/opportunity-finder/api/internal/entity"
	"github.com/leadscope/opportunity-finder/api/internal/fanout"
	"github.com/leadscope/opportunity-finder/api/internal/places"
	"github.com/leadscope/opportunity-finder/api/internal/repository"
	"github.com/leadscope/opportunity-finder/api/internal/service/scoring"
)

// PlacesAPI is the upstream capability surface the pipeline consumes.
type PlacesAPI interface {
	Geocode(ctx context.Context, address string) (places.Coordinate, error)
	NearbySearch(ctx context.Context, origin places.Coordinate, radiusMeters float64, keyword string) ([]places.Place, error)
	TextSearch(ctx context.Context, query string, origin *places.Coordinate, radiusMeters float64) ([]places.Place, error)
	Details(ctx context.Context, placeID string) (*places.Detail, error)
}

const defaultDetailConcurrency = 6

// genericCategoryWords are category terms broad enough that a dedicated
// name-match strategy would only duplicate the keyword and text strategies.
var genericCategoryWords = []string{"restaurant", "shop", "service", "store", "company"}

// SearchService runs the business discovery pipeline for one request:
// quota gate, geocode, multi-strategy retrieval, dedupe, distance filter,
// detail enrichment, scoring, ranking, usage record.
type SearchService struct {
	places            PlacesAPI
	quota             *QuotaGuard
	searches          repository.SearchesRepository
	scorer            *scoring.Scorer
	detailConcurrency int
}

// SearchOption configures optional service knobs.
type SearchOption func(*SearchService)

// WithDetailConcurrency caps simultaneous detail fetches.
func WithDetailConcurrency(n int) SearchOption {
	return func(s *SearchService) {
		if n > 0 {
			s.detailConcurrency = n
		}
	}
}

// WithScorer overrides the default deterministic scorer.
func WithScorer(scorer *scoring.Scorer) SearchOption {
	return func(s *SearchService) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// NewSearchService wires the pipeline.
func NewSearchService(placesAPI PlacesAPI, quota *QuotaGuard, searches repository.SearchesRepository, opts ...SearchOption) *SearchService {
	s := &SearchService{
		places:            placesAPI,
		quota:             quota,
		searches:          searches,
		scorer:            scoring.New(),
		detailConcurrency: defaultDetailConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search executes one full pipeline run for the user.
func (s *SearchService) Search(ctx context.Context, userID uuid.UUID, req dto.SearchRequest) (*dto.SearchResponse, error) {
	req.Location = strings.TrimSpace(req.Location)
	req.BusinessType = strings.TrimSpace(req.BusinessType)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// The quota gate runs before any paid upstream call and fails closed.
	if err := s.quota.Ensure(ctx, userID, 1); err != nil {
		return nil, err
	}

	origin, err := s.places.Geocode(ctx, req.Location)
	if err != nil {
		if errors.Is(err, places.ErrNoResults) {
			return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, req.Location)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	candidates, err := s.collect(ctx, origin, req)
	if err != nil {
		return nil, err
	}

	unique := dedupe(candidates)
	surviving := filterByDistance(unique, origin, req.RadiusMiles)
	results := s.enrich(ctx, surviving)

	if err := ctx.Err(); err != nil {
		// Cancelled mid-flight: the attempt is not recorded.
		return nil, err
	}

	rank(results)
	totalFound := len(results)
	if len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}

	record := &entity.SearchRecord{
		UserID:       userID,
		Location:     req.Location,
		BusinessType: req.BusinessType,
		RadiusMiles:  req.RadiusMiles,
		MaxResults:   req.MaxResults,
		ResultsCount: len(results),
	}
	if err := s.searches.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("record search usage: %w", err)
	}

	return &dto.SearchResponse{
		Success:    true,
		Results:    results,
		TotalFound: totalFound,
		Showing:    len(results),
	}, nil
}

// History returns the user's recent searches.
func (s *SearchService) History(ctx context.Context, userID uuid.UUID, filter dto.HistoryFilter) ([]entity.SearchRecord, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	return s.searches.ListRecent(ctx, userID, filter.PerPage, (filter.Page-1)*filter.PerPage)
}

func validateRequest(req dto.SearchRequest) error {
	if req.Location == "" || req.BusinessType == "" {
		return ValidationError{Message: "location and business type are required"}
	}
	if req.RadiusMiles <= 0 {
		return ValidationError{Message: "radius must be greater than zero"}
	}
	if req.MaxResults <= 0 {
		return ValidationError{Message: "max results must be greater than zero"}
	}
	return nil
}

// collect runs the retrieval strategies concurrently and unions their output
// in strategy order. A single strategy failing is tolerated; all of them
// failing is fatal for the request.
func (s *SearchService) collect(ctx context.Context, origin places.Coordinate, req dto.SearchRequest) ([]places.Place, error) {
	radiusMeters := req.RadiusMiles * places.MetersPerMile

	strategies := []func(context.Context) ([]places.Place, error){
		func(ctx context.Context) ([]places.Place, error) {
			return s.places.NearbySearch(ctx, origin, radiusMeters, req.BusinessType)
		},
		func(ctx context.Context) ([]places.Place, error) {
			return s.places.TextSearch(ctx, req.BusinessType+" near "+req.Location, &origin, radiusMeters)
		},
	}
	if isLikelyBusinessName(req.BusinessType) {
		strategies = append(strategies, func(ctx context.Context) ([]places.Place, error) {
			return s.places.TextSearch(ctx, req.BusinessType, &origin, radiusMeters)
		})
	}

	results := fanout.Gather(ctx, len(strategies), strategies)

	if fanout.AllFailed(results) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, fanout.FirstError(results))
	}

	var union []places.Place
	for i, r := range results {
		if r.Err != nil {
			log.Printf("search strategy %d failed: %v", i, r.Err)
			continue
		}
		union = append(union, r.Value...)
	}
	return union, nil
}

// isLikelyBusinessName gates the name-match strategy: short queries that are
// not obviously a generic category get one extra exact-text search.
func isLikelyBusinessName(businessType string) bool {
	lowered := strings.ToLower(businessType)
	for _, word := range genericCategoryWords {
		if strings.Contains(lowered, word) {
			return false
		}
	}
	return len(strings.Fields(businessType)) <= 3
}

// dedupe keeps the first occurrence of each place id, in strategy order.
func dedupe(candidates []places.Place) []places.Place {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]places.Place, 0, len(candidates))
	for _, place := range candidates {
		if place.PlaceID == "" {
			continue
		}
		if _, dup := seen[place.PlaceID]; dup {
			continue
		}
		seen[place.PlaceID] = struct{}{}
		unique = append(unique, place)
	}
	return unique
}

// filterByDistance drops candidates without a coordinate and those farther
// than the requested radius. A candidate exactly on the boundary is kept.
func filterByDistance(candidates []places.Place, origin places.Coordinate, radiusMiles float64) []candidate {
	surviving := make([]candidate, 0, len(candidates))
	for _, place := range candidates {
		if place.Geometry == nil {
			continue
		}
		distance := haversineMiles(origin, place.Geometry.Location)
		if distance > radiusMiles {
			continue
		}
		surviving = append(surviving, candidate{place: place, distanceMiles: distance})
	}
	return surviving
}

// enrich fetches details for each surviving candidate with bounded
// concurrency. A failed fetch degrades that one candidate to raw data; it
// never fails the request.
func (s *SearchService) enrich(ctx context.Context, candidates []candidate) []entity.Business {
	calls := make([]func(context.Context) (*places.Detail, error), len(candidates))
	for i, cand := range candidates {
		calls[i] = func(ctx context.Context) (*places.Detail, error) {
			return s.places.Details(ctx, cand.place.PlaceID)
		}
	}

	details := fanout.Gather(ctx, s.detailConcurrency, calls)

	results := make([]entity.Business, 0, len(candidates))
	for i, cand := range candidates {
		detail := details[i].Value
		if details[i].Err != nil {
			log.Printf("place details failed, using raw candidate: place_id=%s err=%v", cand.place.PlaceID, details[i].Err)
			detail = nil
		}
		results = append(results, s.buildBusiness(cand, detail))
	}
	return results
}

// rank orders results by descending score; ties break by ascending distance,
// then ascending name. The sort is stable so equal entries keep their
// deterministic pre-sort order.
func rank(results []entity.Business) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].DistanceMiles != results[j].DistanceMiles {
			return results[i].DistanceMiles < results[j].DistanceMiles
		}
		return results[i].Name < results[j].Name
	})
}
