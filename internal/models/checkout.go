package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/pricing"
	"github.com/shopspring/decimal"
)

type CheckoutItem struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=99"`
	Color     string `json:"color" validate:"max=64"`
	Finish    string `json:"finish" validate:"max=64"`
}

// CreatePaymentIntentRequest prices the session cart unless Items is given.
// Sending PaymentIntentID updates that intent instead of creating a new one.
type CreatePaymentIntentRequest struct {
	DeliveryMethod  string         `json:"delivery_method" validate:"required,oneof=shipping pickup"`
	Items           []CheckoutItem `json:"items,omitempty" validate:"omitempty,max=50,dive"`
	PaymentIntentID string         `json:"payment_intent_id,omitempty" validate:"omitempty,startswith=pi_"`
}

type QuoteLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color,omitempty"`
	Finish    string          `json:"finish,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CheckoutQuote is the server-priced basket an intent was created for.
type CheckoutQuote struct {
	UserID          uuid.UUID   `json:"user_id"`
	PaymentIntentID string      `json:"payment_intent_id"`
	Lines           []QuoteLine `json:"lines"`
	pricing.Quote
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

type PaymentIntentResponse struct {
	ClientSecret    string         `json:"client_secret"`
	PaymentIntentID string         `json:"payment_intent_id"`
	Quote           *CheckoutQuote `json:"quote"`
}

type ConfirmOrderRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required,startswith=pi_"`
	Name            string `json:"name" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email"`
	DeliveryMethod  string `json:"delivery_method" validate:"required,oneof=shipping pickup"`
	Address         string `json:"address" validate:"required_if=DeliveryMethod shipping,max=255"`
	City            string `json:"city" validate:"required_if=DeliveryMethod shipping,max=120"`
	PostalCode      string `json:"postal_code" validate:"required_if=DeliveryMethod shipping,max=16"`
}

type ConfirmOrderResponse struct {
	Order    *Order `json:"order"`
	Recorded bool   `json:"recorded"`
}
