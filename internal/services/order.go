package service

import (
	"context"
	"database/sql"
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/models"
	repository "github.com/malaura/storefront/internal/repositories"
)

const (
	defaultOrderPageSize = 10
	maxOrderPageSize     = 50
)

type OrderService interface {
	ListOrders(ctx context.Context, userID uuid.UUID, page, size int) (*models.OrderHistory, error)
	GetOrder(ctx context.Context, userID uuid.UUID, id int64) (*models.Order, error)
}

type orderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) OrderService {
	return &orderService{repo: repo}
}

// ListOrders returns the caller's orders newest first along with their reward progress.
func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) (*models.OrderHistory, error) {
	if page < 1 {
		page = 1
	}

	if size < 1 {
		size = defaultOrderPageSize
	}

	if size > maxOrderPageSize {
		size = maxOrderPageSize
	}

	orders, total, err := s.repo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	paid, err := s.repo.CountPaidOrdersByUser(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count paid orders").WithError(err)
	}

	return &models.OrderHistory{
		Orders:   orders,
		Total:    total,
		Page:     page,
		PageSize: size,
		Rewards:  models.NewRewardProgress(paid),
	}, nil
}

// GetOrder hides orders of other users behind a not found error.
func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, id int64) (*models.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.UserID != userID {
		return nil, errors.NotFoundError("Order not found")
	}

	return order, nil
}
