package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/proposal-agent/internal/db"
	"github.com/jonathan/proposal-agent/internal/generation"
	"github.com/jonathan/proposal-agent/internal/llm"
	"github.com/jonathan/proposal-agent/internal/slides"
	"github.com/jonathan/proposal-agent/internal/types"
)

// HTTPStatus maps pipeline and storage errors onto HTTP status codes.
// Malformed model output surfaces as a bad gateway: the request was fine,
// the upstream model misbehaved.
func HTTPStatus(err error) int {
	var (
		validationErr   *types.ValidationError
		rateLimitErr    *llm.RateLimitError
		quotaErr        *llm.QuotaExceededError
		authErr         *llm.AuthenticationError
		malformedKeyErr *llm.MalformedKeyError
		providerErr     *llm.ProviderError
		parseErr        *generation.ParseError
		storageErr      *db.StorageError
		slidesAuthErr   *slides.AuthenticationError
		renderErr       *slides.RenderError
		exportErr       *slides.ExportError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &rateLimitErr):
		return http.StatusTooManyRequests
	case errors.As(err, &quotaErr):
		return http.StatusForbidden
	case errors.As(err, &authErr), errors.As(err, &malformedKeyErr), errors.As(err, &slidesAuthErr):
		return http.StatusUnauthorized
	case errors.As(err, &parseErr), errors.As(err, &providerErr),
		errors.As(err, &renderErr), errors.As(err, &exportErr):
		return http.StatusBadGateway
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
