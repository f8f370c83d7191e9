package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/malaura/storefront/internal/config"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	_ "github.com/lib/pq"
)

// queryTimeout bounds every statement issued by the repositories.
const queryTimeout = 5 * time.Second

func queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

type Repositories struct {
	DB      *sql.DB
	Product ProductRepository
	Order   OrderRepository
	Profile ProfileRepository
}

// New opens an instrumented Postgres pool and builds the repositories on it.
func New(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewRepositories(db), nil
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		DB:      db,
		Product: NewProductRepo(db),
		Order:   NewOrderRepo(db),
		Profile: NewProfileRepo(db),
	}
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
