package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/models"
	service "github.com/malaura/storefront/internal/services"
	"github.com/malaura/storefront/internal/utils"
	"github.com/malaura/storefront/internal/utils/response"
)

type ProductHandler struct {
	catalogService service.CatalogService
}

func NewProductHandler(catalogService service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Description	Lists the catalog, optionally restricted to one category.
//	@Tags			Products
//	@Produce		json
//	@Param			category	query		string					false	"Category filter (e.g. panales, al_corte, cestas)"
//	@Success		200			{array}		models.Product			"Products in the catalog"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		filter := models.ProductFilter{Category: strings.TrimSpace(r.URL.Query().Get("category"))}

		products, err := h.catalogService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to list products",
				slog.String("category", filter.Category),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Debug("Products listed", slog.Int("count", len(products)))
		response.Success(w, http.StatusOK, products)
	}
}

// GetProduct godoc
//
//	@Summary		Get a product
//	@Description	Retrieves one product with its available colors and finishes.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		int						true	"Product ID"
//	@Success		200	{object}	models.Product			"Product details"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		product, err := h.catalogService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get product",
				slog.Int64("productId", id),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}
