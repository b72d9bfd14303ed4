package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/leadscope/opportunity-finder/api/internal/dto"
	"github.com/leadscope/opportunity-finder/api/internal/entity"
	"github.com/leadscope/opportunity-finder/api/internal/places"
	"github.com/leadscope/opportunity-finder/api/internal/repository"
)

type stubPlaces struct {
	geocodeFunc func(ctx context.Context, address string) (places.Coordinate, error)
	nearbyFunc  func(ctx context.Context, origin places.Coordinate, radiusMeters float64, keyword string) ([]places.Place, error)
	textFunc    func(ctx context.Context, query string, origin *places.Coordinate, radiusMeters float64) ([]places.Place, error)
	detailsFunc func(ctx context.Context, placeID string) (*places.Detail, error)

	searchCalls int64
	detailCalls int64
}

func (s *stubPlaces) Geocode(ctx context.Context, address string) (places.Coordinate, error) {
	if s.geocodeFunc != nil {
		return s.geocodeFunc(ctx, address)
	}
	return places.Coordinate{Lat: 35.2271, Lng: -80.8431}, nil
}

func (s *stubPlaces) NearbySearch(ctx context.Context, origin places.Coordinate, radiusMeters float64, keyword string) ([]places.Place, error) {
	atomic.AddInt64(&s.searchCalls, 1)
	if s.nearbyFunc != nil {
		return s.nearbyFunc(ctx, origin, radiusMeters, keyword)
	}
	return nil, nil
}

func (s *stubPlaces) TextSearch(ctx context.Context, query string, origin *places.Coordinate, radiusMeters float64) ([]places.Place, error) {
	atomic.AddInt64(&s.searchCalls, 1)
	if s.textFunc != nil {
		return s.textFunc(ctx, query, origin, radiusMeters)
	}
	return nil, nil
}

func (s *stubPlaces) Details(ctx context.Context, placeID string) (*places.Detail, error) {
	atomic.AddInt64(&s.detailCalls, 1)
	if s.detailsFunc != nil {
		return s.detailsFunc(ctx, placeID)
	}
	return &places.Detail{}, nil
}

type stubSubscriptions struct {
	plan string
	err  error
}

func (s *stubSubscriptions) ActivePlan(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.plan, nil
}

func (s *stubSubscriptions) Create(ctx context.Context, userID uuid.UUID, planType, status string, trialEnd time.Time) error {
	return nil
}

type stubSearches struct {
	count     int
	countErr  error
	inserted  []*entity.SearchRecord
	insertErr error
	records   []entity.SearchRecord
}

func (s *stubSearches) CountMonthToDate(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.count, s.countErr
}

func (s *stubSearches) Insert(ctx context.Context, record *entity.SearchRecord) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, record)
	return nil
}

func (s *stubSearches) ListRecent(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.SearchRecord, error) {
	return s.records, nil
}

func placeAt(id, name string, origin places.Coordinate, latOffset float64) places.Place {
	return places.Place{
		PlaceID:  id,
		Name:     name,
		Geometry: &places.Geometry{Location: places.Coordinate{Lat: origin.Lat + latOffset, Lng: origin.Lng}},
		Types:    []string{"plumber"},
		Vicinity: "123 Main St",
	}
}

func newTestService(placesAPI PlacesAPI, searches *stubSearches, plan string, used int) *SearchService {
	allowances := map[string]int{"starter": 100, "professional": 500, "agency": -1}
	searches.count = used
	quota := NewQuotaGuard(&stubSubscriptions{plan: plan}, searches, allowances)
	return NewSearchService(placesAPI, quota, searches)
}

func TestSearch_HappyPath(t *testing.T) {
	origin := places.Coordinate{Lat: 35.2271, Lng: -80.8431}
	stub := &stubPlaces{
		nearbyFunc: func(ctx context.Context, o places.Coordinate, radiusMeters float64, keyword string) ([]places.Place, error) {
			return []places.Place{placeAt("p1", "Ace Plumbing", origin, 0.01), placeAt("p2", "Best Pipes", origin, 0.02)}, nil
		},
		textFunc: func(ctx context.Context, query string, o *places.Coordinate, radiusMeters float64) ([]places.Place, error) {
			// p1 also comes back from the text strategy; dedupe must collapse it
			return []places.Place{placeAt("p1", "Ace Plumbing", origin, 0.01), placeAt("p3", "City Drains", origin, 0.03)}, nil
		},
		detailsFunc: func(ctx context.Context, placeID string) (*places.Detail, error) {
			return &places.Detail{
				Name:                 "Detailed " + placeID,
				FormattedPhoneNumber: "(704) 555-0133",
				Website:              "https://example.com",
				Rating:               4.6,
				UserRatingsTotal:     120,
				BusinessStatus:       "OPERATIONAL",
			}, nil
		},
	}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "professional", 0)

	resp, err := svc.Search(context.Background(), uuid.New(), dto.SearchRequest{
		Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success response")
	}
	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 deduped results, got %d", len(resp.Results))
	}
	if resp.TotalFound != 3 || resp.Showing != 3 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
	for _, r := range resp.Results {
		if r.DistanceMiles > 10 {
			t.Fatalf("result %s outside radius: %f", r.PlaceID, r.DistanceMiles)
		}
	}

	if len(searches.inserted) != 1 {
		t.Fatalf("expected exactly one usage record, got %d", len(searches.inserted))
	}
	if searches.inserted[0].ResultsCount != 3 {
		t.Fatalf("usage record should carry result count, got %d", searches.inserted[0].ResultsCount)
	}
}

func TestSearch_DeduplicatesAcrossStrategies(t *testing.T) {
	origin := places.Coordinate{Lat: 35.2271, Lng: -80.8431}
	stub := &stubPlaces{
		nearbyFunc: func(ctx context.Context, o places.Coordinate, r float64, k string) ([]places.Place, error) {
			return []places.Place{placeAt("dup", "From Keyword", origin, 0.01)}, nil
		},
		textFunc: func(ctx context.Context, q string, o *places.Coordinate, r float64) ([]places.Place, error) {
			return []places.Place{placeAt("dup", "From Text", origin, 0.01)}, nil
		},
	}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "starter", 0)

	resp, err := svc.Search(context.Background(), uuid.New(), dto.SearchRequest{
		Location: "Charlotte, NC", BusinessType: "plumbing supply house", RadiusMiles: 10, MaxResults: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected one result for duplicated place id, got %d", len(resp.Results))
	}
}

func TestSearch_StrategyFailureIsIsolated(t *testing.T) {
	origin := places.Coordinate{Lat: 35.2271, Lng: -80.8431}
	stub := &stubPlaces{
		nearbyFunc: func(ctx context.Context, o places.Coordinate, r float64, k string) ([]places.Place, error) {
			return nil, errors.New("timeout")
		},
		textFunc: func(ctx context.Context, q string, o *places.Coordinate, r float64) ([]places.Place, error) {
			return []places.Place{placeAt("p1", "Survivor", origin, 0.01)}, nil
		},
	}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "starter", 0)

	resp, err := svc.Search(context.Background(), uuid.New(), dto.SearchRequest{
		Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 5,
	})
	if err != nil {
		t.Fatalf("one failing strategy must not abort the request: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected the surviving strategy's result, got %d", len(resp.Results))
	}
}

func TestSearch_AllStrategiesFailed(t *testing.T) {
	stub := &stubPlaces{
		nearbyFunc: func(ctx context.Context, o places.Coordinate, r float64, k string) ([]places.Place, error) {
			return nil, errors.New("unreachable")
		},
		textFunc: func(ctx context.Context, q string, o *places.Coordinate, r float64) ([]places.Place, error) {
			return nil, errors.New("unreachable")
		},
	}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "starter", 0)

	_, err := svc.Search(context.Background(), uuid.New(), dto.SearchRequest{
		Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 5,
	})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if len(searches.inserted) != 0 {
		t.Fatalf("failed request must not write a usage record")
	}
}

func TestSearch_EmptyResultsStillCompletes(t *testing.T) {
	stub := &stubPlaces{}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "starter", 0)

	resp, err := svc.Search(context.Background(), uuid.New(), dto.SearchRequest{
		Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 5,
	})
	if err != nil {
		t.Fatalf("zero candidates is not an error: %v", err)
	}
	if len(resp.Results) != 0 || !resp.Success {
		t.Fatalf("expected empty success response, got %+v", resp)
	}
	if len(searches.inserted) != 1 {
		t.Fatalf("an empty search still counts against usage")
	}
}

func TestSearch_LocationNotFound(t *testing.T) {
	stub := &stubPlaces{
		geocodeFunc: func(ctx context.Context, address string) (places.Coordinate, error) {
			return places.Coordinate{}, places.ErrNoResults
		},
	}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "starter", 0)

	_, err := svc.Search(context.Background(), uuid.New(), dto.SearchRequest{
		Location: "Nonexistent Place Zzzzz", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 5,
	})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	if atomic.LoadInt64(&stub.searchCalls) != 0 {
		t.Fatalf("no search call may happen for an unresolved location")
	}
	if len(searches.inserted) != 0 {
		t.Fatalf("no usage record may be written for an unresolved location")
	}
}

func TestSearch_QuotaExceededBeforeAnyPaidCall(t *testing.T) {
	stub := &stubPlaces{}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "starter", 100)

	_, err := svc.Search(context.Background(), uuid.New(), dto.SearchRequest{
		Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 5,
	})

	var quotaErr *QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if quotaErr.Used != 100 || quotaErr.Limit != 100 {
		t.Fatalf("unexpected quota report: %+v", quotaErr)
	}
	if atomic.LoadInt64(&stub.searchCalls) != 0 || atomic.LoadInt64(&stub.detailCalls) != 0 {
		t.Fatalf("over-quota request must make zero upstream calls")
	}
	if len(searches.inserted) != 0 {
		t.Fatalf("over-quota request must not write a usage record")
	}
}

func TestSearch_DetailFailureFallsBackPerItem(t *testing.T) {
	origin := places.Coordinate{Lat: 35.2271, Lng: -80.8431}
	stub := &stubPlaces{
		nearbyFunc: func(ctx context.Context, o places.Coordinate, r float64, k string) ([]places.Place, error) {
			return []places.Place{
				placeAt("ok1", "Alpha", origin, 0.01),
				placeAt("bad", "Bravo", origin, 0.02),
				placeAt("ok2", "Charlie", origin, 0.03),
			}, nil
		},
		detailsFunc: func(ctx context.Context, placeID string) (*places.Detail, error) {
			if placeID == "bad" {
				return nil, errors.New("details timeout")
			}
			return &places.Detail{
				FormattedPhoneNumber: "(704) 555-0133",
				Website:              "https://example.com",
				OpeningHours:         &places.OpeningHours{WeekdayText: []string{"Monday: 9AM-5PM"}},
				Photos:               []places.Photo{{PhotoReference: "a"}, {PhotoReference: "b"}, {PhotoReference: "c"}},
				Rating:               4.5,
				UserRatingsTotal:     80,
				BusinessStatus:       "OPERATIONAL",
			}, nil
		},
	}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "professional", 0)

	resp, err := svc.Search(context.Background(), uuid.New(), dto.SearchRequest{
		Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("every surviving candidate must yield a result, got %d", len(resp.Results))
	}

	var fallback *entity.Business
	for i := range resp.Results {
		if resp.Results[i].PlaceID == "bad" {
			fallback = &resp.Results[i]
		}
	}
	if fallback == nil {
		t.Fatalf("failed candidate missing from results")
	}
	if fallback.Phone != entity.PhoneUnavailable {
		t.Fatalf("expected phone sentinel on fallback, got %q", fallback.Phone)
	}
	if fallback.Website != nil {
		t.Fatalf("expected nil website on fallback")
	}
	if fallback.Hours != nil || fallback.PhotosCount != 0 {
		t.Fatalf("expected empty hours and photos on fallback: %+v", fallback)
	}
}

func TestSearch_DistanceFilterInclusiveBoundary(t *testing.T) {
	origin := places.Coordinate{Lat: 35.2271, Lng: -80.8431}
	near := placeAt("near", "Near", origin, 0.01)
	far := placeAt("far", "Far", origin, 1.0)

	boundaryDistance := haversineMiles(origin, near.Geometry.Location)

	stub := &stubPlaces{
		nearbyFunc: func(ctx context.Context, o places.Coordinate, r float64, k string) ([]places.Place, error) {
			noCoord := places.Place{PlaceID: "nocoord", Name: "Unknown"}
			return []places.Place{near, far, noCoord}, nil
		},
	}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "starter", 0)

	// radius exactly equal to the near candidate's distance keeps it
	resp, err := svc.Search(context.Background(), uuid.New(), dto.SearchRequest{
		Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: boundaryDistance, MaxResults: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].PlaceID != "near" {
		t.Fatalf("expected only the boundary candidate to survive, got %+v", resp.Results)
	}
}

func TestSearch_RankingAndTruncation(t *testing.T) {
	origin := places.Coordinate{Lat: 35.2271, Lng: -80.8431}
	stub := &stubPlaces{
		nearbyFunc: func(ctx context.Context, o places.Coordinate, r float64, k string) ([]places.Place, error) {
			return []places.Place{
				placeAt("strong", "Zeta Services", origin, 0.01),
				placeAt("weakfar", "Beta Services", origin, 0.05),
				placeAt("weaknear", "Alpha Services", origin, 0.01),
				placeAt("weaknear2", "Aardvark Services", origin, 0.01),
			}, nil
		},
		detailsFunc: func(ctx context.Context, placeID string) (*places.Detail, error) {
			if placeID == "strong" {
				return &places.Detail{
					FormattedPhoneNumber: "(704) 555-0133",
					Website:              "https://strong.example",
					OpeningHours:         &places.OpeningHours{WeekdayText: []string{"Monday: 9AM-5PM"}},
					Photos:               []places.Photo{{}, {}, {}, {}},
					Rating:               4.9,
					UserRatingsTotal:     300,
					BusinessStatus:       "OPERATIONAL",
				}, nil
			}
			// weak signal set: identical scores for the three weak businesses
			return &places.Detail{BusinessStatus: "OPERATIONAL"}, nil
		},
	}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "professional", 0)

	resp, err := svc.Search(context.Background(), uuid.New(), dto.SearchRequest{
		Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalFound != 4 || resp.Showing != 3 || len(resp.Results) != 3 {
		t.Fatalf("expected truncation to 3 of 4, got %+v", resp)
	}

	// weak businesses outrank the strong one; equal scores order by distance
	// then name, so the two equidistant weak ones sort alphabetically
	if resp.Results[0].Name != "Aardvark Services" || resp.Results[1].Name != "Alpha Services" {
		t.Fatalf("unexpected tie-break order: %s, %s", resp.Results[0].Name, resp.Results[1].Name)
	}
	if resp.Results[2].Name != "Beta Services" {
		t.Fatalf("expected farther weak business third, got %s", resp.Results[2].Name)
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].Score > resp.Results[i-1].Score {
			t.Fatalf("scores must be non-increasing")
		}
	}
}

func TestSearch_ValidationErrors(t *testing.T) {
	stub := &stubPlaces{}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "starter", 0)

	cases := []dto.SearchRequest{
		{Location: "", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 5},
		{Location: "Charlotte, NC", BusinessType: "", RadiusMiles: 10, MaxResults: 5},
		{Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: 0, MaxResults: 5},
		{Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 0},
	}

	for i, req := range cases {
		_, err := svc.Search(context.Background(), uuid.New(), req)
		var valErr ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("case %d: expected ValidationError, got %v", i, err)
		}
	}
	if atomic.LoadInt64(&stub.searchCalls) != 0 {
		t.Fatalf("validation failures must not reach the upstream")
	}
}

func TestSearch_CancelledRequestWritesNoUsage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	origin := places.Coordinate{Lat: 35.2271, Lng: -80.8431}
	stub := &stubPlaces{
		nearbyFunc: func(ctx context.Context, o places.Coordinate, r float64, k string) ([]places.Place, error) {
			return []places.Place{placeAt("p1", "Alpha", origin, 0.01)}, nil
		},
		detailsFunc: func(ctx context.Context, placeID string) (*places.Detail, error) {
			cancel()
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	searches := &stubSearches{}
	svc := newTestService(stub, searches, "starter", 0)

	_, err := svc.Search(ctx, uuid.New(), dto.SearchRequest{
		Location: "Charlotte, NC", BusinessType: "plumber", RadiusMiles: 10, MaxResults: 5,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation to surface, got %v", err)
	}
	if len(searches.inserted) != 0 {
		t.Fatalf("cancelled attempt must not be recorded")
	}
}

func TestIsLikelyBusinessName(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"Joe's Crab Shack", true},
		{"plumber", true},
		{"italian restaurant", false},
		{"coffee shop", false},
		{"auto repair service", false},
		{"one two three four", false},
	}

	for _, tc := range cases {
		if got := isLikelyBusinessName(tc.input); got != tc.want {
			t.Fatalf("isLikelyBusinessName(%q)=%v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestHistory_Defaults(t *testing.T) {
	searches := &stubSearches{records: []entity.SearchRecord{{BusinessType: "plumber"}}}
	svc := newTestService(&stubPlaces{}, searches, "starter", 0)

	records, err := svc.History(context.Background(), uuid.New(), dto.HistoryFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected records passthrough, got %d", len(records))
	}
}

var _ repository.SubscriptionsRepository = (*stubSubscriptions)(nil)
var _ repository.SearchesRepository = (*stubSearches)(nil)
