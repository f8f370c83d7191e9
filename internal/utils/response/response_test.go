package response_test

import (
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var body response.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))

	return body
}

func TestError(t *testing.T) {
	t.Run("AppError keeps its code and status", func(t *testing.T) {
		rr := httptest.NewRecorder()

		response.Error(rr, errors.NotFoundError("Product not found").WithDetail("id 7"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Empty(t, rr.Header().Get("Retry-After"))

		body := decode(t, rr)
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, errors.ErrCodeNotFound, body.Error.Code)
		assert.Equal(t, []string{"id 7"}, body.Error.Details)
	})

	t.Run("Rate limited response carries Retry-After", func(t *testing.T) {
		rr := httptest.NewRecorder()

		response.Error(rr, errors.TooManyRequestsError("slow down").WithRetryAfter(42*time.Second))

		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "42", rr.Header().Get("Retry-After"))
	})

	t.Run("Plain error is hidden behind a generic message", func(t *testing.T) {
		rr := httptest.NewRecorder()

		response.Error(rr, stdErrors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		body := decode(t, rr)
		require.NotNil(t, body.Error)
		assert.Equal(t, errors.ErrCodeInternal, body.Error.Code)
		assert.NotContains(t, body.Error.Message, "pq:")
	})
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Email    string `validate:"required,email"`
		Quantity int    `validate:"gt=0"`
	}

	err := validator.New().Struct(payload{Email: "not-an-email"})

	var validationErrs validator.ValidationErrors
	require.True(t, stdErrors.As(err, &validationErrs))

	rr := httptest.NewRecorder()
	response.ValidationError(rr, validationErrs)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	body := decode(t, rr)
	require.NotNil(t, body.Error)
	assert.Equal(t, errors.ErrCodeValidation, body.Error.Code)
	assert.ElementsMatch(t, []string{
		"Field Email must be a valid email address",
		"Field Quantity must be greater than 0",
	}, body.Error.Details)
}
