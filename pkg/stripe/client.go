package stripe

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/balance"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
)

type (
	Event         = stripe.Event
	PaymentIntent = stripe.PaymentIntent
)

var ErrWebhookSecretMissing = errors.New("webhook secret not configured")

// ErrorMessage returns the processor's own message for Stripe API errors.
func ErrorMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}

	return err.Error()
}

// PaymentIntentInput describes the amount to authorize, in minor units.
type PaymentIntentInput struct {
	Amount       int64
	Currency     string
	Description  string
	ReceiptEmail string
	Metadata     map[string]string
}

// Client is the subset of the Stripe API the storefront uses.
type Client interface {
	CreatePaymentIntent(ctx context.Context, input *PaymentIntentInput) (*stripe.PaymentIntent, error)
	UpdatePaymentIntent(ctx context.Context, id string, input *PaymentIntentInput) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	VerifyWebhookSignature(payload []byte, signature string) (Event, error)
	CheckBalance(ctx context.Context) error
}

type stripeClient struct {
	webhookSecret string
}

func NewStripeClient(apiKey string, webhookSecret string) Client {
	stripe.Key = apiKey

	return &stripeClient{webhookSecret: webhookSecret}
}

func applyInput(params *stripe.PaymentIntentParams, input *PaymentIntentInput) {
	params.Amount = stripe.Int64(input.Amount)
	params.Currency = stripe.String(input.Currency)

	if input.Description != "" {
		params.Description = stripe.String(input.Description)
	}

	if input.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(input.ReceiptEmail)
	}

	for key, value := range input.Metadata {
		params.AddMetadata(key, value)
	}
}

// CreatePaymentIntent lets Stripe pick the payment methods enabled on the account.
func (s *stripeClient) CreatePaymentIntent(ctx context.Context, input *PaymentIntentInput) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	applyInput(params, input)

	return intentOrNil(paymentintent.New(params))
}

func (s *stripeClient) UpdatePaymentIntent(ctx context.Context, id string, input *PaymentIntentInput) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}
	applyInput(params, input)

	return intentOrNil(paymentintent.Update(id, params))
}

func (s *stripeClient) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}

	return intentOrNil(paymentintent.Get(id, params))
}

// intentOrNil drops the zero value stripe-go hands back alongside an API error.
func intentOrNil(pi *stripe.PaymentIntent, err error) (*stripe.PaymentIntent, error) {
	if err != nil {
		return nil, err
	}

	return pi, nil
}

func (s *stripeClient) VerifyWebhookSignature(payload []byte, signature string) (Event, error) {
	if s.webhookSecret == "" {
		return Event{}, ErrWebhookSecretMissing
	}

	return webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

func (s *stripeClient) CheckBalance(ctx context.Context) error {
	_, err := balance.Get(&stripe.BalanceParams{Params: stripe.Params{Context: ctx}})

	return err
}
