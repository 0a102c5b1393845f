package chi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
)

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeMovieNotFound    ErrorCode = "movie_not_found"
	CodeDatasetNotReady  ErrorCode = "dataset_not_ready"
	CodeRateLimited      ErrorCode = "rate_limited"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrReferenceNotFound, http.StatusNotFound, CodeMovieNotFound),
		sentinelHandler(domain.ErrInvalidExternalID, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidTopN, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidSampleFrac, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnknownStrategy, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrDatasetNotReady, http.StatusServiceUnavailable, CodeDatasetNotReady),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Reference errors keep their detail (which movie, which table); the rest collapse to the sentinel text.
func safeDomainMessage(err error) string {
	var rnf *domain.ReferenceNotFoundError
	if errors.As(err, &rnf) {
		return rnf.Error()
	}
	sentinels := []error{
		domain.ErrReferenceNotFound,
		domain.ErrInvalidExternalID,
		domain.ErrInvalidTopN,
		domain.ErrInvalidSampleFrac,
		domain.ErrUnknownStrategy,
		domain.ErrDatasetNotReady,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
