package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/api/handlers"
	appErrors "github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/models"
	svcMocks "github.com/malaura/storefront/internal/services/mocks"
	"github.com/malaura/storefront/internal/testutils"
	"github.com/malaura/storefront/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListOrders(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		orders := svcMocks.NewMockOrderService(t)
		h := handlers.NewOrderHandler(orders)

		history := &models.OrderHistory{
			Orders:   []models.Order{{ID: 3, UserID: userID, Status: models.OrderStatusPaid}},
			Total:    1,
			Page:     2,
			PageSize: 5,
			Rewards:  models.NewRewardProgress(16),
		}
		orders.On("ListOrders", mock.Anything, userID, 2, 5).Return(history, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders?page=2&pageSize=5", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListOrders().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)

		var got models.OrderHistory
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, 1, got.Rewards.RewardsEarned)
		assert.Equal(t, 14, got.Rewards.OrdersToNextReward)
		assert.Len(t, got.Orders, 1)
	})

	t.Run("Success - Invalid Paging Falls Back", func(t *testing.T) {
		// Arrange
		orders := svcMocks.NewMockOrderService(t)
		h := handlers.NewOrderHandler(orders)

		orders.On("ListOrders", mock.Anything, userID, 0, 0).
			Return(&models.OrderHistory{Page: 1, PageSize: 10}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders?page=abc", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListOrders().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		orders := svcMocks.NewMockOrderService(t)
		h := handlers.NewOrderHandler(orders)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/orders", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListOrders().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		// Arrange
		orders := svcMocks.NewMockOrderService(t)
		h := handlers.NewOrderHandler(orders)

		orders.On("ListOrders", mock.Anything, userID, 0, 0).
			Return(nil, appErrors.DatabaseError("Failed to list orders")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListOrders().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeDatabaseError)
	})
}

func TestGetOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		orders := svcMocks.NewMockOrderService(t)
		h := handlers.NewOrderHandler(orders)

		orders.On("GetOrder", mock.Anything, userID, int64(3)).
			Return(&models.Order{ID: 3, UserID: userID, Status: models.OrderStatusPending}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders/3", nil, userID, map[string]string{"id": "3"})
		rr := httptest.NewRecorder()

		// Act
		h.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"pending"`)
	})

	t.Run("Failure - Invalid ID", func(t *testing.T) {
		// Arrange
		orders := svcMocks.NewMockOrderService(t)
		h := handlers.NewOrderHandler(orders)

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders/-1", nil, userID, map[string]string{"id": "-1"})
		rr := httptest.NewRecorder()

		// Act
		h.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Other User's Order", func(t *testing.T) {
		// Arrange
		orders := svcMocks.NewMockOrderService(t)
		h := handlers.NewOrderHandler(orders)

		orders.On("GetOrder", mock.Anything, userID, int64(9)).
			Return(nil, appErrors.NotFoundError("Order not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders/9", nil, userID, map[string]string{"id": "9"})
		rr := httptest.NewRecorder()

		// Act
		h.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
