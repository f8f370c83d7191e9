package handlers

import (
	"log/slog"
	"net/http"

	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/models"
	"github.com/malaura/storefront/internal/utils/response"
)

// currentUser returns the caller's claims and a logger tagged with their id.
// For anonymous requests the 401 has already been written when ok is false.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.Claims, *slog.Logger, bool) {
	logger := middleware.LoggerFromContext(r.Context())

	claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
	if !ok {
		logger.Warn("Request without user claims", slog.String("http_path", r.URL.Path))
		response.Error(w, errors.UnauthorizedError("Authentication required"))

		return nil, logger, false
	}

	return claims, logger.With(slog.String("userID", claims.UserID.String())), true
}
