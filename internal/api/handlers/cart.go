package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/malaura/storefront/internal/cart"
	"github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/models"
	"github.com/malaura/storefront/internal/pricing"
	service "github.com/malaura/storefront/internal/services"
	"github.com/malaura/storefront/internal/utils"
	"github.com/malaura/storefront/internal/utils/response"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart godoc
//
//	@Summary		Get the session cart
//	@Description	Returns the caller's cart with a shipping quote for the chosen delivery method.
//	@Tags			Cart
//	@Produce		json
//	@Param			delivery_method	query		string					false	"shipping (default) or pickup"
//	@Success		200				{object}	models.CartView			"Current cart"
//	@Failure		400				{object}	response.ErrorResponse	"Invalid delivery method"
//	@Failure		401				{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		method := pricing.DeliveryShipping

		if raw := r.URL.Query().Get("delivery_method"); raw != "" {
			parsed, err := pricing.ParseDeliveryMethod(raw)
			if err != nil {
				logger.Warn("Invalid delivery method", slog.String("deliveryMethod", raw))
				response.Error(w, errors.ValidationError("Invalid delivery method").WithDetail(raw))

				return
			}

			method = parsed
		}

		view, err := h.cartService.GetCart(r.Context(), claims.UserID, method)
		if err != nil {
			logger.Error("Failed to load cart", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// AddItem godoc
//
//	@Summary		Add a product to the cart
//	@Description	Adds one unit of a product variant. The unit price is taken from the catalog.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddCartItemRequest	true	"Product and variant"
//	@Success		200		{object}	models.CartView				"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error, unknown variant or not enough stock"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add to cart input")
			return
		}

		view, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to add item to cart",
				slog.Int64("productId", req.ProductID),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Item added to cart", slog.Int64("productId", req.ProductID))
		response.Success(w, http.StatusOK, view)
	}
}

// UpdateItem godoc
//
//	@Summary		Set a cart line quantity
//	@Description	Sets the quantity of one line. A quantity of zero or less removes the line.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.UpdateCartItemRequest	true	"Line and quantity"
//	@Success		200		{object}	models.CartView					"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error or not enough stock"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse			"Item not found in cart"
//	@Failure		500		{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/items [patch]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.UpdateCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid cart update input")
			return
		}

		view, err := h.cartService.UpdateItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to update cart item",
				slog.Int64("productId", req.ProductID),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// RemoveItem godoc
//
//	@Summary		Remove a cart line
//	@Description	Removes the line matching product, color and finish. Removing a missing line is a no-op.
//	@Tags			Cart
//	@Produce		json
//	@Param			product_id	query		int						true	"Product ID"
//	@Param			color		query		string					false	"Selected color"
//	@Param			finish		query		string					false	"Selected finish"
//	@Success		200			{object}	models.CartView			"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse	"Invalid product ID"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/items [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		query := r.URL.Query()

		productID, err := strconv.ParseInt(query.Get("product_id"), 10, 64)
		if err != nil || productID <= 0 {
			logger.Warn("Invalid product id", slog.String("productId", query.Get("product_id")))
			response.Error(w, errors.BadRequestError("Invalid product_id format"))

			return
		}

		key := cart.Key{ProductID: productID, Color: query.Get("color"), Finish: query.Get("finish")}

		view, err := h.cartService.RemoveItem(r.Context(), claims.UserID, key)
		if err != nil {
			logger.Error("Failed to remove cart item",
				slog.String("userID", claims.UserID.String()),
				slog.Int64("productId", productID),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// ClearCart godoc
//
//	@Summary		Empty the cart
//	@Tags			Cart
//	@Success		204
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		if err := h.cartService.ClearCart(r.Context(), claims.UserID); err != nil {
			logger.Error("Failed to clear cart",
				slog.String("userID", claims.UserID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Cart cleared", slog.String("userID", claims.UserID.String()))
		w.WriteHeader(http.StatusNoContent)
	}
}
