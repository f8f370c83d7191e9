package service

import (
	"context"
	"database/sql"
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"time"

	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/cache"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/loyalty"
	"github.com/malaura/storefront/internal/metrics"
	"github.com/malaura/storefront/internal/models"
	repository "github.com/malaura/storefront/internal/repositories"
	"github.com/malaura/storefront/pkg/stripe"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

type WebhookService interface {
	// HandleEvent verifies and processes one Stripe delivery. A nil error means the
	// event should be acknowledged.
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

type WebhookOptions struct {
	RetryAttempts  int
	RetryInterval  time.Duration
	IdempotencyTTL time.Duration
}

type webhookService struct {
	stripe   stripe.Client
	orders   repository.OrderRepository
	notifier NotificationService
	cache    cache.Cache
	opts     WebhookOptions
}

func NewWebhookService(stripeClient stripe.Client, orders repository.OrderRepository, notifier NotificationService, cache cache.Cache, opts WebhookOptions) WebhookService {
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}

	return &webhookService{
		stripe:   stripeClient,
		orders:   orders,
		notifier: notifier,
		cache:    cache,
		opts:     opts,
	}
}

func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	logger := middleware.LoggerFromContext(ctx)

	event, err := s.stripe.VerifyWebhookSignature(payload, signature)
	if err != nil {
		metrics.WebhookEvent("unknown", "invalid_signature")
		logger.Warn("Webhook signature verification failed", slog.String("error", err.Error()))

		return errors.InvalidSignatureError("Webhook signature verification failed").WithError(err)
	}

	eventType := string(event.Type)
	logger = logger.With(slog.String("eventId", event.ID), slog.String("eventType", eventType))
	ctx = middleware.WithLogger(ctx, logger)

	key := cache.WebhookEventKey(event.ID)

	guarded, err := s.cache.SetNX(ctx, key, time.Now().UTC(), s.opts.IdempotencyTTL)
	if err != nil {
		logger.Warn("Webhook idempotency guard unavailable", slog.String("error", err.Error()))
	} else if !guarded {
		metrics.WebhookEvent(eventType, "duplicate")
		logger.Info("Duplicate webhook event ignored")

		return nil
	}

	if err := s.process(ctx, event); err != nil {
		metrics.WebhookEvent(eventType, "error")

		if guarded {
			if delErr := s.cache.Delete(context.WithoutCancel(ctx), key); delErr != nil {
				logger.Error("Failed to release webhook idempotency mark", slog.String("error", delErr.Error()))
			}
		}

		return err
	}

	return nil
}

func (s *webhookService) process(ctx context.Context, event stripe.Event) error {
	logger := middleware.LoggerFromContext(ctx)
	eventType := string(event.Type)

	switch eventType {
	case EventPaymentSucceeded:
		return s.paymentSucceeded(ctx, event)

	case EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			logger.Warn("Failed to decode payment intent", slog.String("error", err.Error()))
		}

		attrs := []any{slog.String("paymentIntentId", intent.ID)}
		if intent.LastPaymentError != nil {
			attrs = append(attrs, slog.String("reason", intent.LastPaymentError.Msg))
		}

		metrics.WebhookEvent(eventType, "logged")
		logger.Warn("Payment failed", attrs...)

	default:
		metrics.WebhookEvent(eventType, "unhandled")
		logger.Info("Unhandled webhook event")
	}

	return nil
}

func (s *webhookService) paymentSucceeded(ctx context.Context, event stripe.Event) error {
	logger := middleware.LoggerFromContext(ctx)

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil || intent.ID == "" {
		metrics.WebhookEvent(EventPaymentSucceeded, "malformed")
		logger.Error("Webhook payload has no payment intent", slog.Any("error", err))

		return nil
	}

	logger = logger.With(slog.String("paymentIntentId", intent.ID))

	order, err := s.findOrder(ctx, intent.ID)
	if err != nil {
		return err
	}

	if order == nil {
		metrics.WebhookEvent(EventPaymentSucceeded, "order_missing")
		logger.Warn("No order recorded for payment, notification skipped",
			slog.Int("attempts", s.opts.RetryAttempts))

		return nil
	}

	logger = logger.With(slog.Int64("orderId", order.ID))

	if order.Status == models.OrderStatusPending {
		if _, err := s.orders.MarkOrderPaid(ctx, intent.ID); err != nil {
			logger.Error("Failed to mark order paid", slog.String("error", err.Error()))

			return errors.DatabaseError("Failed to mark order paid").WithError(err)
		}

		order.Status = models.OrderStatusPaid
		logger.Info("Order marked paid")
	}

	paid, err := s.orders.CountPaidOrdersByEmail(ctx, order.CustomerEmail)
	if err != nil {
		logger.Error("Failed to count paid orders", slog.String("error", err.Error()))

		return errors.DatabaseError("Failed to count paid orders").WithError(err)
	}

	notification := &models.OrderNotification{
		Order:      order,
		PaidOrders: paid,
		Tier:       loyalty.TierFor(paid),
		Milestone:  loyalty.IsMilestone(paid),
		Loyalty:    loyalty.Summarize(paid),
	}

	if err := s.notifier.SendOrderNotifications(ctx, notification); err != nil {
		logger.Error("Order notifications incomplete", slog.String("error", err.Error()))
	}

	metrics.WebhookEvent(EventPaymentSucceeded, "processed")

	return nil
}

// findOrder polls for the order because the webhook can arrive before the client confirms.
// It returns nil without error when the order never shows up.
func (s *webhookService) findOrder(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	for attempt := 1; attempt <= s.opts.RetryAttempts; attempt++ {
		order, err := s.orders.GetOrderByPaymentIntent(ctx, paymentIntentID)
		if err == nil {
			return order, nil
		}

		if !stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.DatabaseError("Failed to look up order").WithError(err)
		}

		if attempt == s.opts.RetryAttempts {
			break
		}

		timer := time.NewTimer(s.opts.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.InternalError("Order lookup cancelled").WithError(ctx.Err())
		case <-timer.C:
		}
	}

	return nil, nil
}
