package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/models"
)

// TestEmail is the address carried by the claims of authenticated test requests.
const TestEmail = "test@example.com"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// CreateTestRequestWithContext builds a request as it looks after the auth middleware ran.
func CreateTestRequestWithContext(method, target string, body io.Reader, userID uuid.UUID, pathParams map[string]string) *http.Request {
	claims := &models.Claims{UserID: userID, Email: TestEmail}

	return newRequest(method, target, body, pathParams, claims)
}

// CreateTestRequestWithoutContext builds an anonymous request.
func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	return newRequest(method, target, body, pathParams, nil)
}

func newRequest(method, target string, body io.Reader, pathParams map[string]string, claims *models.Claims) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	ctx := context.WithValue(req.Context(), middleware.LoggerKey, discardLogger)
	if claims != nil {
		ctx = context.WithValue(ctx, middleware.UserContextKey, claims)
	}

	return req.WithContext(ctx)
}
