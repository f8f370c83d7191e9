package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/utils"
	"github.com/malaura/storefront/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Method string `json:"method" validate:"required,oneof=shipping pickup"`
}

func TestParseAndValidate(t *testing.T) {
	validate := validator.New()

	testCases := []struct {
		name         string
		body         string
		expectOK     bool
		expectedCode string
		detailCount  int
	}{
		{
			name:     "Success - Valid body",
			body:     `{"name":"Ana","email":"ana@example.com","method":"pickup"}`,
			expectOK: true,
		},
		{
			name:         "Failure - Empty body",
			body:         ``,
			expectedCode: errors.ErrCodeBadRequest,
			detailCount:  1,
		},
		{
			name:         "Failure - Malformed JSON",
			body:         `{"name":`,
			expectedCode: errors.ErrCodeBadRequest,
			detailCount:  1,
		},
		{
			name:         "Failure - Two JSON documents",
			body:         `{"name":"Ana","email":"ana@example.com","method":"pickup"} {}`,
			expectedCode: errors.ErrCodeBadRequest,
			detailCount:  1,
		},
		{
			name:         "Failure - Field validation",
			body:         `{"email":"not-an-email","method":"drone"}`,
			expectedCode: errors.ErrCodeValidation,
			detailCount:  3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			var dest sampleRequest

			// Act
			ok := utils.ParseAndValidate(req, rr, &dest, validate)

			// Assert
			assert.Equal(t, tc.expectOK, ok)

			if tc.expectOK {
				assert.Equal(t, "Ana", dest.Name)
				return
			}

			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var body response.APIResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.expectedCode, body.Error.Code)
			assert.Len(t, body.Error.Details, tc.detailCount)
		})
	}
}

func TestParseID(t *testing.T) {
	testCases := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{"Success - Numeric id", "42", 42, false},
		{"Failure - Not a number", "abc", 0, true},
		{"Failure - Zero", "0", 0, true},
		{"Failure - Negative", "-3", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("id", tc.value)

			got, err := utils.ParseID(req, "id")

			if tc.wantErr {
				appErr, ok := errors.IsAppError(err)
				require.True(t, ok)
				assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
