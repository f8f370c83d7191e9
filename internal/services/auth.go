package service

import (
	"context"
	"log/slog"

	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/pkg/gotrue"
)

type AuthService interface {
	// ExchangeCode trades the identity provider's callback code for a verified access token.
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*gotrue.Session, error)
}

type authService struct {
	client    gotrue.Client
	jwtSecret []byte
}

func NewAuthService(client gotrue.Client, jwtSecret []byte) AuthService {
	return &authService{client: client, jwtSecret: jwtSecret}
}

func (s *authService) ExchangeCode(ctx context.Context, code, codeVerifier string) (*gotrue.Session, error) {
	logger := middleware.LoggerFromContext(ctx)

	if code == "" {
		return nil, errors.BadRequestError("Authorization code is required")
	}

	session, err := s.client.ExchangeCode(ctx, code, codeVerifier)
	if err != nil {
		logger.Warn("Auth code exchange failed", slog.String("error", err.Error()))

		return nil, errors.UnauthorizedError("Failed to exchange authorization code").WithError(err)
	}

	claims, err := middleware.ParseToken(session.AccessToken, s.jwtSecret)
	if err != nil {
		logger.Error("Identity provider returned an unverifiable token", slog.String("error", err.Error()))

		return nil, errors.UnauthorizedError("Invalid access token").WithError(err)
	}

	logger.Info("User signed in", slog.String("userID", claims.UserID.String()))

	return session, nil
}
