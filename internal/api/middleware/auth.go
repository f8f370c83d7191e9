package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/models"
	"github.com/malaura/storefront/internal/utils/response"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

type AuthMiddleware struct {
	jwtKey     []byte
	cookieName string
}

func NewAuthMiddleware(jwtKey []byte, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{jwtKey: jwtKey, cookieName: cookieName}
}

// ParseToken verifies an HS256 access token issued by the identity provider and
// resolves its subject into Claims.UserID.
func ParseToken(tokenString string, key []byte) (*models.Claims, error) {
	claims := &models.Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	claims.UserID = userID

	return claims, nil
}

// token reads the Bearer header first and falls back to the session cookie.
func (m *AuthMiddleware) token(r *http.Request) (string, *errors.AppError) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return "", errors.UnauthorizedError("Invalid authorization format")
		}

		return tokenParts[1], nil
	}

	if m.cookieName != "" {
		if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
	}

	return "", errors.UnauthorizedError("Authentication required")
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		tokenString, appErr := m.token(r)
		if appErr != nil {
			logger.Warn("Missing or malformed credentials", slog.String("reason", appErr.Message))
			response.Error(w, appErr)

			return
		}

		claims, err := ParseToken(tokenString, m.jwtKey)
		if err != nil {
			logger.Warn("JWT verification failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))

			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)

		requestScopedLogger := logger.With(slog.String("userId", claims.UserID.String()))
		ctx = WithLogger(ctx, requestScopedLogger)

		requestScopedLogger.Debug("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
