package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/models"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepo(db *sql.DB) ProfileRepository {
	return &profileRepository{DB: db}
}

func (r *profileRepository) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	profile := &models.Profile{}

	query := `
		SELECT id, COALESCE(full_name, ''), COALESCE(address, ''), COALESCE(phone, ''), COALESCE(avatar_url, ''), updated_at
		FROM profiles
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&profile.ID, &profile.FullName, &profile.Address, &profile.Phone, &profile.AvatarURL, &profile.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

func (r *profileRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	dbCtx, cancel := queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO profiles (id, full_name, address, phone, avatar_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE
		SET full_name = EXCLUDED.full_name, address = EXCLUDED.address, phone = EXCLUDED.phone,
		    avatar_url = EXCLUDED.avatar_url, updated_at = NOW()
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, profile.ID, profile.FullName, profile.Address, profile.Phone, profile.AvatarURL).
		Scan(&profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}
