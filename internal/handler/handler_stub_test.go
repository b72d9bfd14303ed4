package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/leadscope/opportunity-finder/api/internal/entity"
	"github.com/leadscope/opportunity-finder/api/internal/places"
)

type stubPlaces struct {
	geocodeFunc      func(ctx context.Context, address string) (places.Coordinate, error)
	nearbyFunc       func(ctx context.Context, origin places.Coordinate, radiusMeters float64, keyword string) ([]places.Place, error)
	detailsFunc      func(ctx context.Context, placeID string) (*places.Detail, error)
	autocompleteFunc func(ctx context.Context, input string) ([]places.Prediction, error)
}

func (s *stubPlaces) Geocode(ctx context.Context, address string) (places.Coordinate, error) {
	if s.geocodeFunc != nil {
		return s.geocodeFunc(ctx, address)
	}
	return places.Coordinate{Lat: 35.2271, Lng: -80.8431}, nil
}

func (s *stubPlaces) NearbySearch(ctx context.Context, origin places.Coordinate, radiusMeters float64, keyword string) ([]places.Place, error) {
	if s.nearbyFunc != nil {
		return s.nearbyFunc(ctx, origin, radiusMeters, keyword)
	}
	return nil, nil
}

func (s *stubPlaces) TextSearch(ctx context.Context, query string, origin *places.Coordinate, radiusMeters float64) ([]places.Place, error) {
	return nil, nil
}

func (s *stubPlaces) Details(ctx context.Context, placeID string) (*places.Detail, error) {
	if s.detailsFunc != nil {
		return s.detailsFunc(ctx, placeID)
	}
	return &places.Detail{}, nil
}

func (s *stubPlaces) Autocomplete(ctx context.Context, input string) ([]places.Prediction, error) {
	if s.autocompleteFunc != nil {
		return s.autocompleteFunc(ctx, input)
	}
	return nil, nil
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
	count    int
	inserted []*entity.SearchRecord
	records  []entity.SearchRecord
}

func (s *stubSearches) CountMonthToDate(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.count, nil
}

func (s *stubSearches) Insert(ctx context.Context, record *entity.SearchRecord) error {
	s.inserted = append(s.inserted, record)
	return nil
}

func (s *stubSearches) ListRecent(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.SearchRecord, error) {
	return s.records, nil
}

type stubUsers struct {
	user      *entity.User
	findErr   error
	createErr error
}

func (s *stubUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubUsers) Create(ctx context.Context, email, passwordHash, fullName string) (*entity.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &entity.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, FullName: fullName}, nil
}

// newJSONContext builds an echo context carrying a JSON body.
func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newGetContext(path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
