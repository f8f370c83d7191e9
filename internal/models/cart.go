package models

import (
	"github.com/malaura/storefront/internal/cart"
	"github.com/malaura/storefront/internal/pricing"
)

type AddCartItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Color     string `json:"color" validate:"max=64"`
	Finish    string `json:"finish" validate:"max=64"`
}

// UpdateCartItemRequest sets a line quantity; zero or less removes the line.
type UpdateCartItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Color     string `json:"color" validate:"max=64"`
	Finish    string `json:"finish" validate:"max=64"`
	Quantity  int    `json:"quantity" validate:"max=99"`
}

type CartView struct {
	Items     []cart.LineItem `json:"items"`
	ItemCount int             `json:"item_count"`
	Quote     pricing.Quote   `json:"quote"`
}
