package service

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/loyalty"
	"github.com/malaura/storefront/internal/models"
	repository "github.com/malaura/storefront/internal/repositories"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID, email string) (*models.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, email string, req *models.UpdateProfileRequest) (*models.ProfileResponse, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	orders   repository.OrderRepository
}

func NewProfileService(profiles repository.ProfileRepository, orders repository.OrderRepository) ProfileService {
	return &profileService{profiles: profiles, orders: orders}
}

// GetProfile returns an empty profile for users who never saved one.
func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID, email string) (*models.ProfileResponse, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if !stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.DatabaseError("Failed to fetch profile").WithError(err)
		}

		profile = &models.Profile{ID: userID}
	}

	return s.withLoyalty(ctx, profile, email)
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, email string, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	profile := &models.Profile{
		ID:        userID,
		FullName:  strings.TrimSpace(req.FullName),
		Address:   strings.TrimSpace(req.Address),
		Phone:     strings.TrimSpace(req.Phone),
		AvatarURL: strings.TrimSpace(req.AvatarURL),
	}

	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		return nil, errors.DatabaseError("Failed to update profile").WithError(err)
	}

	return s.withLoyalty(ctx, profile, email)
}

func (s *profileService) withLoyalty(ctx context.Context, profile *models.Profile, email string) (*models.ProfileResponse, error) {
	paid, err := s.orders.CountPaidOrdersByUser(ctx, profile.ID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count paid orders").WithError(err)
	}

	return &models.ProfileResponse{
		Profile: profile,
		Email:   email,
		Loyalty: loyalty.Summarize(paid),
	}, nil
}
