package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func apiError(code int, reasons ...string) error {
	apiErr := &googleapi.Error{Code: code}
	for _, reason := range reasons {
		apiErr.Errors = append(apiErr.Errors, googleapi.ErrorItem{Reason: reason})
	}
	return fmt.Errorf("wrapped: %w", apiErr)
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, Classify(nil))
}

func TestClassify_ContextErrorsPassThrough(t *testing.T) {
	assert.Equal(t, context.Canceled, Classify(context.Canceled))
	assert.Equal(t, context.DeadlineExceeded, Classify(context.DeadlineExceeded))
}

func TestClassify_AlreadyClassified(t *testing.T) {
	original := &QuotaExceededError{Message: "out of quota"}
	assert.Equal(t, error(original), Classify(original))
}

func TestClassify_TooManyRequests(t *testing.T) {
	err := Classify(apiError(http.StatusTooManyRequests))

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.True(t, rateErr.Retriable())
}

func TestClassify_QuotaReasonOn429(t *testing.T) {
	err := Classify(apiError(http.StatusTooManyRequests, "quotaExceeded"))

	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.False(t, quotaErr.Retriable())
}

func TestClassify_Unauthorized(t *testing.T) {
	err := Classify(apiError(http.StatusUnauthorized))

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.False(t, authErr.Retriable())
}

func TestClassify_ForbiddenQuota(t *testing.T) {
	err := Classify(apiError(http.StatusForbidden, "dailyLimitExceeded"))

	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
}

func TestClassify_ForbiddenPermissions(t *testing.T) {
	err := Classify(apiError(http.StatusForbidden))

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestClassify_MalformedKey(t *testing.T) {
	err := Classify(apiError(http.StatusBadRequest, "API_KEY_INVALID"))

	var keyErr *MalformedKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.False(t, keyErr.Retriable())
}

func TestClassify_BadRequestWithoutKeyReason(t *testing.T) {
	err := Classify(apiError(http.StatusBadRequest))

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.True(t, provErr.Retriable())
}

func TestClassify_ServerError(t *testing.T) {
	err := Classify(apiError(http.StatusInternalServerError))

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
}

func TestClassify_UnknownError(t *testing.T) {
	err := Classify(errors.New("something odd"))

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
}

func TestClassify_ReasonInDetails(t *testing.T) {
	apiErr := &googleapi.Error{
		Code: http.StatusBadRequest,
		Details: []interface{}{
			map[string]interface{}{"reason": "API_KEY_INVALID"},
		},
	}

	var keyErr *MalformedKeyError
	require.ErrorAs(t, Classify(apiErr), &keyErr)
}

func TestIsRetriable_Defaults(t *testing.T) {
	assert.True(t, IsRetriable(errors.New("unclassified")), "unclassified errors default to retriable")
	assert.True(t, IsRetriable(&RateLimitError{}))
	assert.True(t, IsRetriable(&ProviderError{}))
	assert.False(t, IsRetriable(&QuotaExceededError{}))
	assert.False(t, IsRetriable(&AuthenticationError{}))
	assert.False(t, IsRetriable(&MalformedKeyError{}))
}
