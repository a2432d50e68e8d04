package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"shop-backend/internal/auth"
	"shop-backend/internal/order"
	"shop-backend/internal/product"
)

type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type PlacementResponse struct {
	OrderID    int64   `json:"order_id"`
	CustomerID int64   `json:"customer_id"`
	TotalPrice float64 `json:"total_price"`
}

type CustomerHandler struct {
	products product.Service
	orders   order.Service
	validate *validator.Validate
}

func NewCustomerHandler(products product.Service, orders order.Service) *CustomerHandler {
	return &CustomerHandler{
		products: products,
		orders:   orders,
		validate: validator.New(),
	}
}

func (h *CustomerHandler) RegisterRoutes(router chi.Router) {
	router.Get("/products", h.handleListProducts)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Get("/orders/{id}/status", h.handleGetLineItemStatus)
	router.Post("/api/orders", h.handleCreateOrder)
}

func (h *CustomerHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *CustomerHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	foundOrder, err := h.orders.GetOrderByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}

		log.Error().Err(err).Int64("order_id", id).Msg("Failed to get order via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, foundOrder)
}

// handleGetLineItemStatus reports the fulfillment status of a single line
// item, addressed by the line item's own id.
func (h *CustomerHandler) handleGetLineItemStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	status, err := h.orders.GetLineItemStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrLineItemNotFound) {
			respondWithError(w, http.StatusNotFound, "Order line item not found")
			return
		}

		log.Error().Err(err).Int64("line_item_id", id).Msg("Failed to get line item status via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to get line item status")
		return
	}

	respondWithJSON(w, http.StatusOK, status.String())
}

func (h *CustomerHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	var requestPayload CreateOrderRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode order payload")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		if !respondWithValidationErrors(w, err) {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	items := make([]order.PlacementItem, 0, len(requestPayload.Items))
	for _, item := range requestPayload.Items {
		items = append(items, order.PlacementItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	placement, err := h.orders.PlaceOrder(r.Context(), claims.UserID, items)
	if err != nil {
		var productNotFound *order.ProductNotFoundError
		var insufficientStock *order.InsufficientStockError

		switch {
		case errors.As(err, &productNotFound):
			respondWithError(w, http.StatusNotFound, productNotFound.Error())
		case errors.As(err, &insufficientStock):
			respondWithError(w, http.StatusBadRequest, insufficientStock.Error())
		default:
			log.Error().Err(err).Int64("customer_id", claims.UserID).Msg("Failed to place order via service")
			respondWithError(w, http.StatusInternalServerError, "Failed to place order")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, PlacementResponse{
		OrderID:    placement.OrderID,
		CustomerID: placement.CustomerID,
		TotalPrice: placement.TotalPrice,
	})
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
