// Package health wires the /health endpoint to the storefront's dependencies.
package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/malaura/storefront/internal/config"
	stripeClient "github.com/malaura/storefront/pkg/stripe"
)

const version = "1.0.0"

var errStripeNotConfigured = errors.New("stripe client is not initialized")

type Endpoints struct {
	Stripe stripeClient.Client
}

// NewHealthHandler reports the database and redis as critical. Stripe is only
// needed at checkout, so a failing Stripe check degrades the status instead.
func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:    "postgres",
			Timeout: 3 * time.Second,
			Check:   postgres.New(postgres.Config{DSN: cfg.Database.GetDSN()}),
		},
		{
			Name:    "redis",
			Timeout: 2 * time.Second,
			Check:   healthRedis.New(healthRedis.Config{DSN: cfg.RedisConnect.GetDSN()}),
		},
		{
			Name:      "stripe",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check:     StripeCheck(endpoints.Stripe),
		},
	}

	h, err := health.New(
		health.WithComponent(health.Component{Name: cfg.Otel.ServiceName, Version: version}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}

	return h, nil
}

// StripeCheck reports whether the Stripe API accepts our key.
func StripeCheck(client stripeClient.Client) health.CheckFunc {
	return func(ctx context.Context) error {
		if client == nil {
			return errStripeNotConfigured
		}

		if err := client.CheckBalance(ctx); err != nil {
			return fmt.Errorf("stripe balance: %w", err)
		}

		return nil
	}
}
