package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadscope/opportunity-finder/api/internal/service"
)

// Error kinds exposed in the error envelope. Clients branch on these rather
// than on message text.
const (
	KindValidation = "validation_error"
	KindAuth       = "auth_error"
	KindQuota      = "quota_exceeded"
	KindLocation   = "location_not_found"
	KindUpstream   = "upstream_unavailable"
	KindInternal   = "internal_error"
)

// ErrorResponse is the shared error envelope.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind"`
}

// QuotaErrorResponse extends the error envelope with usage numbers so the
// client can render "X of Y searches used" without another request.
type QuotaErrorResponse struct {
	ErrorResponse
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// Fail sends an error envelope with the given status and kind.
func Fail(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, ErrorResponse{Error: message, ErrorKind: kind})
}

// ServiceError translates service-layer errors into HTTP responses. Unknown
// errors collapse to a generic 500 so internals never leak.
func ServiceError(c echo.Context, err error) error {
	var valErr service.ValidationError
	var quotaErr *service.QuotaExceededError

	switch {
	case errors.As(err, &valErr):
		return Fail(c, http.StatusBadRequest, KindValidation, valErr.Message)
	case errors.As(err, &quotaErr):
		return c.JSON(http.StatusTooManyRequests, QuotaErrorResponse{
			ErrorResponse: ErrorResponse{Error: quotaErr.Error(), ErrorKind: KindQuota},
			Used:          quotaErr.Used,
			Limit:         quotaErr.Limit,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		return Fail(c, http.StatusUnauthorized, KindAuth, "invalid credentials")
	case errors.Is(err, service.ErrLocationNotFound):
		return Fail(c, http.StatusNotFound, KindLocation, "location could not be resolved")
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return Fail(c, http.StatusBadGateway, KindUpstream, "search provider is unavailable")
	default:
		return Fail(c, http.StatusInternalServerError, KindInternal, "internal server error")
	}
}
