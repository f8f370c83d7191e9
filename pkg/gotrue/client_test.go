package gotrue_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/malaura/storefront/pkg/gotrue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "0d5c7a5e-8f4b-4c59-9a7e-2f1b3c4d5e6f"

func TestExchangeCode(t *testing.T) {
	ctx := t.Context()

	tests := []struct {
		name          string
		code          string
		handler       http.HandlerFunc
		expectedToken string
		expectedError string
	}{
		{
			name: "Success - Code exchanged",
			code: "auth-code-1",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/auth/v1/token", r.URL.Path)
				assert.Equal(t, "pkce", r.URL.Query().Get("grant_type"))
				assert.Equal(t, "anon-key", r.Header.Get("apikey"))

				var body map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "auth-code-1", body["auth_code"])
				assert.Equal(t, "verifier-1", body["code_verifier"])

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"access_token":"jwt-token","token_type":"bearer","expires_in":3600,"refresh_token":"r1","user":{"id":"` +
					userID + `","email":"ana@example.com"}}`))
			},
			expectedToken: "jwt-token",
		},
		{
			name: "Failure - Invalid grant",
			code: "expired",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid auth code"}`))
			},
			expectedError: "exchanging auth code",
		},
		{
			name: "Failure - Missing access token",
			code: "odd",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"token_type":"bearer"}`))
			},
			expectedError: gotrue.ErrNoAccessToken.Error(),
		},
		{
			name:          "Failure - Empty code",
			code:          "",
			handler:       func(w http.ResponseWriter, _ *http.Request) { t.Error("server must not be called") },
			expectedError: gotrue.ErrEmptyCode.Error(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client := gotrue.NewClientWithHTTP(server.URL+"/auth/v1/", "anon-key", server.Client())

			// Act
			session, err := client.ExchangeCode(ctx, tc.code, "verifier-1")

			// Assert
			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
				assert.Nil(t, session)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedToken, session.AccessToken)
			assert.Equal(t, "ana@example.com", session.User.Email)
			assert.Equal(t, userID, session.User.ID)
		})
	}
}

func TestExchangeCode_CancelledContext(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("server must not be called")
	}))
	defer server.Close()

	client := gotrue.NewClientWithHTTP(server.URL+"/auth/v1", "anon-key", server.Client())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// Act
	session, err := client.ExchangeCode(ctx, "auth-code-1", "verifier-1")

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, session)
}
