package models

import "github.com/malaura/storefront/internal/loyalty"

type EmailNotificationRequest struct {
	To          string   `json:"to" validate:"required,email"`
	CC          []string `json:"cc,omitempty" validate:"omitempty,dive,email"`
	BCC         []string `json:"bcc,omitempty" validate:"omitempty,dive,email"`
	Subject     string   `json:"subject" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	HTMLContent string   `json:"html_content,omitempty"`
	ReplyTo     string   `json:"reply_to,omitempty" validate:"omitempty,email"`
	Categories  []string `json:"categories,omitempty"`
}

// OrderNotification carries what the order emails need once a payment succeeds.
type OrderNotification struct {
	Order      *Order
	PaidOrders int
	Tier       loyalty.Tier
	Milestone  bool
	Loyalty    loyalty.Summary
}
