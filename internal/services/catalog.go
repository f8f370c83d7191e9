package service

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"log/slog"
	"slices"
	"time"

	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/cache"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/models"
	repository "github.com/malaura/storefront/internal/repositories"
)

type CatalogService interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	// ResolveProducts returns the current catalog rows for ids. Unknown ids are absent from the map.
	ResolveProducts(ctx context.Context, ids []int64) (map[int64]*models.Product, error)
}

type catalogService struct {
	repo  repository.ProductRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewCatalogService(repo repository.ProductRepository, cache cache.Cache, ttl time.Duration) CatalogService {
	return &catalogService{repo: repo, cache: cache, ttl: ttl}
}

func (s *catalogService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	logger := middleware.LoggerFromContext(ctx)

	var cached models.Product

	found, err := s.cache.Get(ctx, cache.ProductKey(id), &cached)
	if err != nil {
		logger.Warn("Product cache read failed", slog.Int64("productId", id), slog.String("error", err.Error()))
	}

	if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	s.store(ctx, product)

	return product, nil
}

func (s *catalogService) ResolveProducts(ctx context.Context, ids []int64) (map[int64]*models.Product, error) {
	logger := middleware.LoggerFromContext(ctx)

	products := make(map[int64]*models.Product, len(ids))
	missing := make([]int64, 0, len(ids))

	for _, id := range ids {
		if _, ok := products[id]; ok || slices.Contains(missing, id) {
			continue
		}

		var cached models.Product

		found, err := s.cache.Get(ctx, cache.ProductKey(id), &cached)
		if err != nil {
			logger.Warn("Product cache read failed", slog.Int64("productId", id), slog.String("error", err.Error()))
		}

		if found {
			products[id] = &cached
			continue
		}

		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return products, nil
	}

	rows, err := s.repo.GetProductsByIDs(ctx, missing)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	for _, product := range rows {
		products[product.ID] = product
		s.store(ctx, product)
	}

	return products, nil
}

func (s *catalogService) store(ctx context.Context, product *models.Product) {
	if err := s.cache.Set(ctx, cache.ProductKey(product.ID), product, s.ttl); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache write failed",
			slog.Int64("productId", product.ID), slog.String("error", err.Error()))
	}
}
