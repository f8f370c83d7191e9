package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Colors      []string        `json:"colors"`
	Finishes    []string        `json:"finishes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OffersVariant reports whether color and finish are valid selections. An empty
// value is always accepted.
func (p *Product) OffersVariant(color, finish string) bool {
	if color != "" && !slices.Contains(p.Colors, color) {
		return false
	}

	if finish != "" && !slices.Contains(p.Finishes, finish) {
		return false
	}

	return true
}

type ProductFilter struct {
	Category string
}
