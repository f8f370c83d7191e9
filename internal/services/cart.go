package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/cache"
	"github.com/malaura/storefront/internal/cart"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/models"
	"github.com/malaura/storefront/internal/pricing"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID, method pricing.DeliveryMethod) (*models.CartView, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.CartView, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, req *models.UpdateCartItemRequest) (*models.CartView, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, key cart.Key) (*models.CartView, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
	// LoadCart returns the stored cart value, empty when none was saved.
	LoadCart(ctx context.Context, userID uuid.UUID) (cart.Cart, error)
}

type cartService struct {
	cache   cache.Cache
	catalog CatalogService
	policy  pricing.Policy
	ttl     time.Duration
}

func NewCartService(cache cache.Cache, catalog CatalogService, policy pricing.Policy, ttl time.Duration) CartService {
	return &cartService{cache: cache, catalog: catalog, policy: policy, ttl: ttl}
}

func (s *cartService) LoadCart(ctx context.Context, userID uuid.UUID) (cart.Cart, error) {
	var c cart.Cart

	found, err := s.cache.Get(ctx, cache.CartKey(userID), &c)
	if err != nil {
		return cart.Cart{}, errors.InternalError("Failed to load cart").WithError(err)
	}

	if !found || c.Items == nil {
		return cart.Cart{Items: []cart.LineItem{}}, nil
	}

	return c, nil
}

// update applies fn to the stored cart and saves the result. Concurrent
// writers to the same cart make fn run again on the fresher value.
func (s *cartService) update(ctx context.Context, userID uuid.UUID, fn func(c cart.Cart) (cart.Cart, error)) (cart.Cart, error) {
	var (
		stored cart.Cart
		result cart.Cart
	)

	err := s.cache.Update(ctx, cache.CartKey(userID), &stored, s.ttl, func(found bool) (any, error) {
		if !found || stored.Items == nil {
			stored = cart.Cart{Items: []cart.LineItem{}}
		}

		next, err := fn(stored)
		if err != nil {
			return nil, err
		}

		result = next

		return next, nil
	})

	if appErr, ok := errors.IsAppError(err); ok {
		return cart.Cart{}, appErr
	}

	switch {
	case stdErrors.Is(err, cache.ErrConflict):
		return cart.Cart{}, errors.TooManyRequestsError("Cart is being updated elsewhere, try again").
			WithError(err).WithRetryAfter(time.Second)
	case err != nil:
		return cart.Cart{}, errors.InternalError("Failed to save cart").WithError(err)
	}

	return result, nil
}

func (s *cartService) view(c cart.Cart, method pricing.DeliveryMethod) *models.CartView {
	return &models.CartView{
		Items:     c.Items,
		ItemCount: c.ItemCount(),
		Quote:     s.policy.Quote(c.Subtotal(), method),
	}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID, method pricing.DeliveryMethod) (*models.CartView, error) {
	c, err := s.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.view(c, method), nil
}

// AddItem prices the line from the catalog; the client never supplies a price.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.CartView, error) {
	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if !product.OffersVariant(req.Color, req.Finish) {
		return nil, errors.ValidationError("Selected color or finish is not available for this product")
	}

	key := cart.Key{ProductID: product.ID, Color: req.Color, Finish: req.Finish}

	c, err := s.update(ctx, userID, func(c cart.Cart) (cart.Cart, error) {
		if c.Quantity(key) >= product.Stock {
			return c, errors.BadRequestError(fmt.Sprintf("Only %d units of %s are in stock", product.Stock, product.Name))
		}

		return c.Add(cart.Product{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			ImageURL: product.ImageURL,
		}, req.Color, req.Finish), nil
	})
	if err != nil {
		return nil, err
	}

	middleware.LoggerFromContext(ctx).Info("Cart item added",
		slog.Int64("productId", product.ID), slog.Int("quantity", c.Quantity(key)))

	return s.view(c, pricing.DeliveryShipping), nil
}

// UpdateItem sets the line's quantity. Zero or less removes it, and an absent
// line is only an error when the caller wants units of it.
func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *models.UpdateCartItemRequest) (*models.CartView, error) {
	key := cart.Key{ProductID: req.ProductID, Color: req.Color, Finish: req.Finish}

	c, err := s.update(ctx, userID, func(c cart.Cart) (cart.Cart, error) {
		if _, ok := c.Find(key); !ok && req.Quantity > 0 {
			return c, errors.NotFoundError("Item not found in cart")
		}

		if req.Quantity > c.Quantity(key) {
			product, err := s.catalog.GetProduct(ctx, req.ProductID)
			if err != nil {
				return c, err
			}

			if req.Quantity > product.Stock {
				return c, errors.BadRequestError(fmt.Sprintf("Only %d units of %s are in stock", product.Stock, product.Name))
			}
		}

		return c.UpdateQuantity(key, req.Quantity), nil
	})
	if err != nil {
		return nil, err
	}

	return s.view(c, pricing.DeliveryShipping), nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, key cart.Key) (*models.CartView, error) {
	c, err := s.update(ctx, userID, func(c cart.Cart) (cart.Cart, error) {
		return c.Remove(key), nil
	})
	if err != nil {
		return nil, err
	}

	return s.view(c, pricing.DeliveryShipping), nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.cache.Delete(ctx, cache.CartKey(userID)); err != nil {
		return errors.InternalError("Failed to clear cart").WithError(err)
	}

	return nil
}
