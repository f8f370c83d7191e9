package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	service "github.com/malaura/storefront/internal/services"
	"github.com/malaura/storefront/internal/utils"
	"github.com/malaura/storefront/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrders godoc
//
//	@Summary		List the caller's orders
//	@Description	Retrieves a paginated order history, newest first, with reward progress. Requires authentication.
//	@Tags			Orders
//	@Produce		json
//	@Param			page		query		int						false	"Page number"		default(1)	minimum(1)
//	@Param			pageSize	query		int						false	"Orders per page"	default(10)	minimum(1)	maximum(50)
//	@Success		200			{object}	models.OrderHistory		"Order history"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		// bad values fall back to the service defaults
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		history, err := h.orderService.ListOrders(r.Context(), claims.UserID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Debug("Orders listed",
			slog.Int("page", history.Page),
			slog.Int("total", history.Total))
		response.Success(w, http.StatusOK, history)
	}
}

// GetOrder godoc
//
//	@Summary		Get an order by ID
//	@Description	Retrieves one order placed by the authenticated user.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		int						true	"Order ID"
//	@Success		200	{object}	models.Order			"Order details"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		order, err := h.orderService.GetOrder(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Error("Failed to get order",
				slog.Int64("orderId", id),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}
