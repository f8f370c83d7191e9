package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/loyalty"
)

type Profile struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	FullName  string `json:"full_name" validate:"max=120"`
	Address   string `json:"address" validate:"max=255"`
	Phone     string `json:"phone" validate:"max=32"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type ProfileResponse struct {
	Profile *Profile        `json:"profile"`
	Email   string          `json:"email"`
	Loyalty loyalty.Summary `json:"loyalty"`
}
