package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/malaura/storefront/internal/models"
	service "github.com/malaura/storefront/internal/services"
	"github.com/malaura/storefront/internal/utils"
	"github.com/malaura/storefront/internal/utils/response"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: validator.New()}
}

// CreatePaymentIntent godoc
//
//	@Summary		Start checkout
//	@Description	Prices the basket on the server and creates a Stripe PaymentIntent for it. Items default to the session cart. Sending payment_intent_id updates that intent after a delivery method change.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body		models.CreatePaymentIntentRequest	true	"Delivery method and optional items"
//	@Success		200			{object}	models.PaymentIntentResponse		"Client secret and priced quote"
//	@Failure		400			{object}	response.ErrorResponse				"Validation error or empty cart"
//	@Failure		401			{object}	response.ErrorResponse				"Authentication required"
//	@Failure		402			{object}	response.ErrorResponse				"Payment processor rejected the request"
//	@Failure		404			{object}	response.ErrorResponse				"Product not found"
//	@Failure		429			{object}	response.ErrorResponse				"Too many checkout attempts"
//	@Failure		500			{object}	response.ErrorResponse				"Internal server error"
//	@Security		BearerAuth
//	@Router			/checkout/payment-intent [post]
func (h *CheckoutHandler) CreatePaymentIntent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.CreatePaymentIntentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		result, err := h.checkoutService.CreatePaymentIntent(r.Context(), claims.UserID, claims.Email, &req)
		if err != nil {
			logger.Error("Failed to create payment intent", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Payment intent ready",
			slog.String("paymentIntentId", result.PaymentIntentID),
			slog.Int64("amount", result.Quote.AmountMinor))
		response.Success(w, http.StatusOK, result)
	}
}

// ConfirmOrder godoc
//
//	@Summary		Record a paid order
//	@Description	Verifies the PaymentIntent with Stripe and records the order. Address fields are required for shipping. Repeating the call returns the stored order.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.ConfirmOrderRequest	true	"Payment reference and customer details"
//	@Success		201		{object}	models.ConfirmOrderResponse	"Order recorded"
//	@Success		200		{object}	models.ConfirmOrderResponse	"Order was already recorded"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		402		{object}	response.ErrorResponse		"Payment was not completed"
//	@Failure		403		{object}	response.ErrorResponse		"Payment belongs to another user"
//	@Failure		500		{object}	response.ErrorResponse		"Payment received but the order could not be recorded"
//	@Security		BearerAuth
//	@Router			/checkout/orders [post]
func (h *CheckoutHandler) ConfirmOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.ConfirmOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid order confirmation input")
			return
		}

		logger = logger.With(slog.String("paymentIntentId", req.PaymentIntentID))

		result, err := h.checkoutService.ConfirmOrder(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to confirm order", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		status := http.StatusOK
		if result.Recorded {
			status = http.StatusCreated
		}

		logger.Info("Order confirmed",
			slog.Int64("orderId", result.Order.ID),
			slog.Bool("recorded", result.Recorded))
		response.Success(w, status, result)
	}
}

// Confirmation godoc
//
//	@Summary		Checkout confirmation
//	@Description	Returns the caller's order for a payment reference and empties the session cart. Without a matching order the cart is left untouched.
//	@Tags			Checkout
//	@Produce		json
//	@Param			payment_intent	query		string					true	"Stripe PaymentIntent ID"
//	@Success		200				{object}	models.Order			"Confirmed order"
//	@Failure		400				{object}	response.ErrorResponse	"Payment reference is required"
//	@Failure		401				{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404				{object}	response.ErrorResponse	"Order not found"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/checkout/confirmation [get]
func (h *CheckoutHandler) Confirmation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		paymentIntentID := strings.TrimSpace(r.URL.Query().Get("payment_intent"))

		order, err := h.checkoutService.Confirmation(r.Context(), claims.UserID, paymentIntentID)
		if err != nil {
			logger.Warn("Checkout confirmation failed",
				slog.String("userID", claims.UserID.String()),
				slog.String("paymentIntentId", paymentIntentID),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}
