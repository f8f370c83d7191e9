// Package cache stores JSON encoded values in Redis under namespaced keys.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Cache interface {
	// Get decodes the value stored at key into value and reports whether it was there.
	Get(ctx context.Context, key string, value any) (bool, error)
	// Set stores value at key. A ttl of zero or less falls back to the configured default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	// Update reads key into value, passes whether it was found to fn and stores
	// what fn returns. The write is dropped and fn rerun if key changed meanwhile.
	// An error from fn aborts without writing.
	Update(ctx context.Context, key string, value any, ttl time.Duration, fn func(found bool) (any, error)) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func ProductKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func CartKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}

// CheckoutKey holds the quote a payment intent was created for.
func CheckoutKey(paymentIntentID string) string {
	return "checkout:" + paymentIntentID
}

// WebhookEventKey marks a Stripe event as being processed or done.
func WebhookEventKey(eventID string) string {
	return "webhook:event:" + eventID
}
