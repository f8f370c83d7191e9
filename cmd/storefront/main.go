package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/malaura/storefront/docs"
	"github.com/malaura/storefront/internal/api/handlers"
	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/cache"
	"github.com/malaura/storefront/internal/config"
	"github.com/malaura/storefront/internal/health"
	"github.com/malaura/storefront/internal/metrics"
	repository "github.com/malaura/storefront/internal/repositories"
	service "github.com/malaura/storefront/internal/services"
	"github.com/malaura/storefront/internal/telemetry"
	"github.com/malaura/storefront/pkg/gotrue"
	"github.com/malaura/storefront/pkg/sendgrid"
	"github.com/malaura/storefront/pkg/stripe"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						Storefront API
//	@version					1.0
//	@description				Catalog, cart, checkout and order history for a handmade soap shop.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by the access token.
func main() {
	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, &cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := cache.NewRedisCache(redisClient, &cfg.Cache)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}

		if err := store.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	jwtKey := []byte(cfg.Auth.JWTSecret)
	policy := cfg.Store.PricingPolicy()

	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	authClient := gotrue.NewClient(cfg.Auth.URL, cfg.Auth.AnonKey)

	catalogService := service.NewCatalogService(repos.Product, store, cfg.Cache.ProductTTL)
	cartService := service.NewCartService(store, catalogService, policy, cfg.Cache.CartTTL)
	checkoutService := service.NewCheckoutService(cartService, catalogService, repos.Order, rateLimitRepo, stripeClient, store,
		service.CheckoutOptions{
			Policy:      policy,
			Currency:    cfg.Stripe.Currency,
			StoreName:   cfg.Store.Name,
			CheckoutTTL: cfg.Cache.CheckoutTTL,
		})
	orderService := service.NewOrderService(repos.Order)
	profileService := service.NewProfileService(repos.Profile, repos.Order)
	notificationService := service.NewNotificationService(emailService, cfg.Store.OwnerEmail, cfg.Store.Name)
	webhookService := service.NewWebhookService(stripeClient, repos.Order, notificationService, store,
		service.WebhookOptions{
			RetryAttempts:  cfg.Webhook.RetryAttempts,
			RetryInterval:  cfg.Webhook.RetryInterval,
			IdempotencyTTL: cfg.Webhook.IdempotencyTTL,
		})
	authService := service.NewAuthService(authClient, jwtKey)

	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService)
	profileHandler := handlers.NewProfileHandler(profileService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	authHandler := handlers.NewAuthHandler(authService, handlers.CookieOptions{
		SessionName:  cfg.Auth.CookieName,
		VerifierName: cfg.Auth.VerifierCookieName,
		Secure:       cfg.Auth.CookieSecure,
		MaxAge:       cfg.Auth.CookieMaxAge,
		SiteURL:      cfg.Store.SiteURL,
	})
	authMiddleware := middleware.NewAuthMiddleware(jwtKey, cfg.Auth.CookieName)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{Stripe: stripeClient})
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()

	route := func(pattern string, h http.Handler) {
		routerMux.Handle(pattern, metrics.Middleware(pattern, h))
	}

	route("GET /api/v1/products", productHandler.ListProducts())
	route("GET /api/v1/products/{id}", productHandler.GetProduct())
	route("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	route("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	route("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	route("PATCH /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.UpdateItem()))
	route("DELETE /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	route("POST /api/v1/checkout/payment-intent", authMiddleware.Authenticate(checkoutHandler.CreatePaymentIntent()))
	route("POST /api/v1/checkout/orders", authMiddleware.Authenticate(checkoutHandler.ConfirmOrder()))
	route("GET /api/v1/checkout/confirmation", authMiddleware.Authenticate(checkoutHandler.Confirmation()))
	route("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	route("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	route("GET /api/v1/profile", authMiddleware.Authenticate(profileHandler.GetProfile()))
	route("PUT /api/v1/profile", authMiddleware.Authenticate(profileHandler.UpdateProfile()))
	route("POST /api/v1/webhooks/stripe", webhookHandler.HandleStripeWebhook())
	route("GET /auth/callback", authHandler.Callback())
	route("POST /auth/logout", authHandler.Logout())

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}
