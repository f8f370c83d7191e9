package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the identity provider's access token claims. UserID is filled from
// the subject after verification.
type Claims struct {
	UserID uuid.UUID `json:"-"`
	Email  string    `json:"email"`
	Role   string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}
