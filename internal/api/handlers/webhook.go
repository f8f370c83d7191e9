package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/models"
	service "github.com/malaura/storefront/internal/services"
	"github.com/malaura/storefront/internal/utils/response"
)

const maxWebhookBodyBytes = 65536

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// HandleStripeWebhook godoc
//
//	@Summary		Stripe webhook
//	@Description	Receives Stripe events. The raw body is verified against the Stripe-Signature header before anything is processed.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string					true	"Stripe signature header"
//	@Success		200					{object}	models.WebhookAck		"Event acknowledged"
//	@Failure		400					{object}	response.ErrorResponse	"Unreadable body or invalid signature"
//	@Failure		500					{object}	response.ErrorResponse	"Event could not be processed, Stripe will retry"
//	@Router			/webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
		if err != nil {
			logger.Error("Error reading webhook body", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Failed to read request body"))

			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			logger.Warn("Webhook rejected: missing Stripe signature")
			response.Error(w, errors.InvalidSignatureError("Stripe signature is required"))

			return
		}

		if err := h.webhookService.HandleEvent(r.Context(), payload, signature); err != nil {
			logger.Error("Failed to process webhook", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		_ = response.WriteJson(w, http.StatusOK, models.WebhookAck{Received: true})
	}
}
