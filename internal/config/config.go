package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/malaura/storefront/internal/pricing"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"10"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"1m"`
}

type Stripe struct {
	APIKey        string `yaml:"STRIPE_API_KEY" env:"STRIPE_API_KEY" env-default:""`
	WebhookSecret string `yaml:"STRIPE_WEBHOOK_SECRET" env:"STRIPE_WEBHOOK_SECRET" env-default:""`
	Currency      string `yaml:"STRIPE_CURRENCY" env:"STRIPE_CURRENCY" env-default:"eur"`
}

type SendGrid struct {
	APIKey    string `yaml:"API_KEY" env:"SENDGRID_API_KEY"`
	FromEmail string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"pedidos@example.com"`
	FromName  string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Storefront"`
}

// Auth points at a GoTrue compatible identity provider.
type Auth struct {
	URL                string        `yaml:"AUTH_URL" env:"AUTH_URL"`
	AnonKey            string        `yaml:"AUTH_ANON_KEY" env:"AUTH_ANON_KEY"`
	JWTSecret          string        `yaml:"AUTH_JWT_SECRET" env:"AUTH_JWT_SECRET" env-required:"true"`
	CookieName         string        `yaml:"COOKIE_NAME" env:"AUTH_COOKIE_NAME" env-default:"storefront_session"`
	VerifierCookieName string        `yaml:"VERIFIER_COOKIE_NAME" env:"AUTH_VERIFIER_COOKIE_NAME" env-default:"storefront_code_verifier"`
	CookieSecure       bool          `yaml:"COOKIE_SECURE" env:"AUTH_COOKIE_SECURE" env-default:"true"`
	CookieMaxAge       time.Duration `yaml:"COOKIE_MAX_AGE" env:"AUTH_COOKIE_MAX_AGE" env-default:"168h"`
}

type Store struct {
	Name                  string  `yaml:"name" env:"STORE_NAME" env-default:"Storefront"`
	OwnerEmail            string  `yaml:"owner_email" env:"STORE_OWNER_EMAIL"`
	SiteURL               string  `yaml:"site_url" env:"SITE_URL"`
	ShippingFee           float64 `yaml:"shipping_fee" env:"STORE_SHIPPING_FEE" env-default:"4.50"`
	FreeShippingThreshold float64 `yaml:"free_shipping_threshold" env:"STORE_FREE_SHIPPING_THRESHOLD" env-default:"40"`
}

func (s Store) PricingPolicy() pricing.Policy {
	return pricing.NewPolicy(s.ShippingFee, s.FreeShippingThreshold)
}

type Webhook struct {
	RetryAttempts  int           `yaml:"retry_attempts" env:"WEBHOOK_RETRY_ATTEMPTS" env-default:"5"`
	RetryInterval  time.Duration `yaml:"retry_interval" env:"WEBHOOK_RETRY_INTERVAL" env-default:"2s"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl" env:"WEBHOOK_IDEMPOTENCY_TTL" env-default:"72h"`
}

type CacheConfig struct {
	DefaultTTL  time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
	ProductTTL  time.Duration `yaml:"product_ttl" env:"CACHE_PRODUCT_TTL" env-default:"10m"`
	CartTTL     time.Duration `yaml:"cart_ttl" env:"CACHE_CART_TTL" env-default:"720h"`
	CheckoutTTL time.Duration `yaml:"checkout_ttl" env:"CACHE_CHECKOUT_TTL" env-default:"24h"`
}

type OtelConfig struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"storefront"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4318"`
	Insecure         bool    `yaml:"INSECURE" env:"OTEL_EXPORTER_INSECURE" env-default:"true"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Stripe       Stripe       `yaml:"stripe"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Auth         Auth         `yaml:"auth"`
	Store        Store        `yaml:"store"`
	Webhook      Webhook      `yaml:"webhook"`
	Cache        CacheConfig  `yaml:"cache"`
	Otel         OtelConfig   `yaml:"otel"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "path to the config file")
		flag.Parse()

		configPath = *flags

		if configPath == "" {
			configPath = "config/local.yaml"
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return cfg
}

func LoadConfigFromPath(configPath string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", configPath, err)
	}

	return &cfg, nil
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}
