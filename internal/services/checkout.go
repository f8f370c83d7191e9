package service

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/cache"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/metrics"
	"github.com/malaura/storefront/internal/models"
	"github.com/malaura/storefront/internal/pricing"
	repository "github.com/malaura/storefront/internal/repositories"
	"github.com/malaura/storefront/pkg/stripe"
	"github.com/shopspring/decimal"
	stripeSDK "github.com/stripe/stripe-go/v81"
)

const checkoutRateScope = "checkout"

const paymentNotRecordedMessage = "Payment received but the order could not be recorded. Please contact us with your payment reference."

type CheckoutService interface {
	// CreatePaymentIntent prices the basket on the server and creates or updates the Stripe intent for it.
	CreatePaymentIntent(ctx context.Context, userID uuid.UUID, email string, req *models.CreatePaymentIntentRequest) (*models.PaymentIntentResponse, error)
	// ConfirmOrder records the order once Stripe reports the intent as succeeded or processing.
	ConfirmOrder(ctx context.Context, userID uuid.UUID, req *models.ConfirmOrderRequest) (*models.ConfirmOrderResponse, error)
	// Confirmation returns the caller's order for a payment reference and empties their cart.
	Confirmation(ctx context.Context, userID uuid.UUID, paymentIntentID string) (*models.Order, error)
}

type CheckoutOptions struct {
	Policy      pricing.Policy
	Currency    string
	StoreName   string
	CheckoutTTL time.Duration
}

type checkoutService struct {
	carts     CartService
	catalog   CatalogService
	orders    repository.OrderRepository
	rateLimit repository.RateLimitRepository
	stripe    stripe.Client
	cache     cache.Cache
	opts      CheckoutOptions
	now       func() time.Time
}

func NewCheckoutService(
	carts CartService,
	catalog CatalogService,
	orders repository.OrderRepository,
	rateLimit repository.RateLimitRepository,
	stripeClient stripe.Client,
	cache cache.Cache,
	opts CheckoutOptions,
) CheckoutService {
	if opts.Currency == "" {
		opts.Currency = "eur"
	}

	return &checkoutService{
		carts:     carts,
		catalog:   catalog,
		orders:    orders,
		rateLimit: rateLimit,
		stripe:    stripeClient,
		cache:     cache,
		opts:      opts,
		now:       time.Now,
	}
}

func (s *checkoutService) CreatePaymentIntent(ctx context.Context, userID uuid.UUID, email string, req *models.CreatePaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("userID", userID.String()))

	method, err := pricing.ParseDeliveryMethod(req.DeliveryMethod)
	if err != nil {
		return nil, errors.ValidationError("Delivery method must be shipping or pickup").WithError(err)
	}

	allowed, _, retryAfter, err := s.rateLimit.CheckRateLimit(ctx, checkoutRateScope, userID.String())
	if err != nil {
		return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		metrics.CheckoutIntent("throttled")

		return nil, errors.TooManyRequestsError(fmt.Sprintf("Too many checkout attempts, try again in %d seconds", retryAfter)).
			WithRetryAfter(time.Duration(retryAfter) * time.Second)
	}

	items := req.Items
	if len(items) == 0 {
		items, err = s.cartItems(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	if len(items) == 0 {
		return nil, errors.BadRequestError("Cart is empty")
	}

	lines, subtotal, err := s.priceItems(ctx, items)
	if err != nil {
		metrics.CheckoutIntent("rejected")
		return nil, err
	}

	quote := &models.CheckoutQuote{
		UserID:    userID,
		Lines:     lines,
		Quote:     s.opts.Policy.Quote(subtotal, method),
		Currency:  s.opts.Currency,
		CreatedAt: s.now().UTC(),
	}
	quote.AmountMinor = pricing.ToMinorUnits(quote.Total)

	if quote.AmountMinor <= 0 {
		return nil, errors.BadRequestError("Order total must be greater than zero")
	}

	input := &stripe.PaymentIntentInput{
		Amount:       quote.AmountMinor,
		Currency:     s.opts.Currency,
		Description:  s.opts.StoreName,
		ReceiptEmail: email,
		Metadata: map[string]string{
			"user_id":         userID.String(),
			"delivery_method": string(method),
			"subtotal":        quote.Subtotal.StringFixed(2),
			"shipping":        quote.Shipping.StringFixed(2),
		},
	}

	var intent *stripe.PaymentIntent

	outcome := "created"

	if req.PaymentIntentID != "" {
		if err := s.ensureQuoteOwner(ctx, userID, req.PaymentIntentID); err != nil {
			return nil, err
		}

		intent, err = s.stripe.UpdatePaymentIntent(ctx, req.PaymentIntentID, input)
		outcome = "updated"
	} else {
		intent, err = s.stripe.CreatePaymentIntent(ctx, input)
	}

	if err != nil {
		metrics.CheckoutIntent("failed")
		logger.Error("Stripe rejected the payment intent", slog.String("error", err.Error()))

		return nil, errors.PaymentError(stripe.ErrorMessage(err)).WithError(err)
	}

	quote.PaymentIntentID = intent.ID

	if err := s.cache.Set(ctx, cache.CheckoutKey(intent.ID), quote, s.opts.CheckoutTTL); err != nil {
		return nil, errors.InternalError("Failed to store checkout quote").WithError(err)
	}

	metrics.CheckoutIntent(outcome)
	logger.Info("Payment intent ready",
		slog.String("paymentIntentId", intent.ID),
		slog.String("deliveryMethod", string(method)),
		slog.Int64("amount", quote.AmountMinor))

	return &models.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Quote:           quote,
	}, nil
}

func (s *checkoutService) cartItems(ctx context.Context, userID uuid.UUID) ([]models.CheckoutItem, error) {
	c, err := s.carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.CheckoutItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, models.CheckoutItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Color:     line.Color,
			Finish:    line.Finish,
		})
	}

	return items, nil
}

// priceItems re-reads every product so the charge never depends on a client supplied price.
func (s *checkoutService) priceItems(ctx context.Context, items []models.CheckoutItem) ([]models.QuoteLine, decimal.Decimal, error) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.ResolveProducts(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}

	lines := make([]models.QuoteLine, 0, len(items))
	requested := make(map[int64]int, len(products))
	subtotal := decimal.Zero

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, decimal.Zero, errors.NotFoundError(fmt.Sprintf("Product %d not found", item.ProductID))
		}

		if item.Quantity <= 0 {
			return nil, decimal.Zero, errors.ValidationError("Quantity must be at least 1")
		}

		if !product.OffersVariant(item.Color, item.Finish) {
			return nil, decimal.Zero, errors.ValidationError(fmt.Sprintf("Selected color or finish is not available for %s", product.Name))
		}

		requested[product.ID] += item.Quantity
		if requested[product.ID] > product.Stock {
			return nil, decimal.Zero, errors.BadRequestError(fmt.Sprintf("Only %d units of %s are in stock", product.Stock, product.Name))
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		lines = append(lines, models.QuoteLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Finish:    item.Finish,
			LineTotal: lineTotal,
		})
	}

	return lines, subtotal, nil
}

func (s *checkoutService) loadQuote(ctx context.Context, paymentIntentID string) (*models.CheckoutQuote, bool, error) {
	var quote models.CheckoutQuote

	found, err := s.cache.Get(ctx, cache.CheckoutKey(paymentIntentID), &quote)
	if err != nil || !found {
		return nil, false, err
	}

	return &quote, true, nil
}

// ensureQuoteOwner stops a caller from repricing an intent that another user started.
func (s *checkoutService) ensureQuoteOwner(ctx context.Context, userID uuid.UUID, paymentIntentID string) error {
	quote, found, err := s.loadQuote(ctx, paymentIntentID)
	if err != nil {
		return errors.InternalError("Failed to load checkout quote").WithError(err)
	}

	if !found {
		return errors.NotFoundError("Checkout session not found")
	}

	if quote.UserID != userID {
		return errors.ForbiddenError("Checkout session belongs to another user")
	}

	return nil
}

func (s *checkoutService) ConfirmOrder(ctx context.Context, userID uuid.UUID, req *models.ConfirmOrderRequest) (*models.ConfirmOrderResponse, error) {
	logger := middleware.LoggerFromContext(ctx).With(
		slog.String("userID", userID.String()),
		slog.String("paymentIntentId", req.PaymentIntentID))

	method, err := pricing.ParseDeliveryMethod(req.DeliveryMethod)
	if err != nil {
		return nil, errors.ValidationError("Delivery method must be shipping or pickup").WithError(err)
	}

	intent, err := s.stripe.GetPaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		logger.Error("Failed to retrieve payment intent", slog.String("error", err.Error()))

		return nil, errors.PaymentError(stripe.ErrorMessage(err)).WithError(err)
	}

	var status models.OrderStatus

	switch intent.Status {
	case stripeSDK.PaymentIntentStatusSucceeded:
		status = models.OrderStatusPaid
	case stripeSDK.PaymentIntentStatusProcessing:
		status = models.OrderStatusPending
	default:
		logger.Warn("Payment not completed", slog.String("status", string(intent.Status)))

		return nil, errors.PaymentError(fmt.Sprintf("Payment was not completed (status: %s)", intent.Status))
	}

	// From here on the customer has been charged.
	quote, found, err := s.loadQuote(ctx, req.PaymentIntentID)
	if err != nil || !found {
		logger.Error("Checkout quote missing for a charged intent", slog.Any("error", err))

		return nil, errors.PaymentNotRecordedError(paymentNotRecordedMessage).WithDetail(req.PaymentIntentID)
	}

	if quote.UserID != userID {
		return nil, errors.ForbiddenError("Payment belongs to another user")
	}

	if quote.AmountMinor != intent.Amount || !strings.EqualFold(quote.Currency, string(intent.Currency)) {
		logger.Error("Charged amount does not match the checkout quote",
			slog.Int64("quoted", quote.AmountMinor), slog.Int64("charged", intent.Amount))

		return nil, errors.PaymentNotRecordedError(paymentNotRecordedMessage).WithDetail(req.PaymentIntentID)
	}

	// The client can resubmit with the method it paid for; nothing is recorded yet.
	if quote.DeliveryMethod != method {
		return nil, errors.ValidationError(fmt.Sprintf("Delivery method does not match the payment (%s)", quote.DeliveryMethod))
	}

	order := buildOrder(userID, req, quote, status)

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		logger.Error("Failed to record paid order", slog.String("error", err.Error()))

		return nil, errors.PaymentNotRecordedError(paymentNotRecordedMessage).WithDetail(req.PaymentIntentID).WithError(err)
	}

	if !created {
		existing, err := s.orders.GetOrderByPaymentIntent(ctx, req.PaymentIntentID)
		if err != nil {
			logger.Error("Failed to load previously recorded order", slog.String("error", err.Error()))

			return nil, errors.PaymentNotRecordedError(paymentNotRecordedMessage).WithDetail(req.PaymentIntentID).WithError(err)
		}

		if existing.UserID != userID {
			return nil, errors.ForbiddenError("Payment belongs to another user")
		}

		logger.Info("Order already recorded", slog.Int64("orderId", existing.ID))

		return &models.ConfirmOrderResponse{Order: existing, Recorded: false}, nil
	}

	metrics.OrderRecorded(string(order.Status))
	logger.Info("Order recorded", slog.Int64("orderId", order.ID), slog.String("status", string(order.Status)))

	return &models.ConfirmOrderResponse{Order: order, Recorded: true}, nil
}

func buildOrder(userID uuid.UUID, req *models.ConfirmOrderRequest, quote *models.CheckoutQuote, status models.OrderStatus) *models.Order {
	address := models.PickupMarker
	if quote.DeliveryMethod == pricing.DeliveryShipping {
		address = fmt.Sprintf("%s, %s %s", strings.TrimSpace(req.Address), strings.TrimSpace(req.PostalCode), strings.TrimSpace(req.City))
	}

	items := make([]models.OrderItem, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			Quantity:     line.Quantity,
			PricePerUnit: line.UnitPrice,
			Color:        line.Color,
			Finish:       line.Finish,
		})
	}

	return &models.Order{
		UserID:          userID,
		CustomerName:    strings.TrimSpace(req.Name),
		CustomerEmail:   strings.TrimSpace(req.Email),
		ShippingAddress: address,
		DeliveryMethod:  quote.DeliveryMethod,
		Subtotal:        quote.Subtotal,
		ShippingCost:    quote.Shipping,
		TotalAmount:     quote.Total,
		PaymentIntentID: quote.PaymentIntentID,
		Status:          status,
		Items:           items,
	}
}

func (s *checkoutService) Confirmation(ctx context.Context, userID uuid.UUID, paymentIntentID string) (*models.Order, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("userID", userID.String()))

	if paymentIntentID == "" {
		return nil, errors.BadRequestError("Payment reference is required")
	}

	order, err := s.orders.GetOrderByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.UserID != userID {
		logger.Warn("Confirmation requested for another user's order", slog.Int64("orderId", order.ID))

		return nil, errors.NotFoundError("Order not found")
	}

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		logger.Error("Failed to clear cart after confirmation", slog.String("error", err.Error()))
	}

	return order, nil
}
