package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"shop-backend/internal/order"
	"shop-backend/internal/product"
)

type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

type AdminHandler struct {
	products product.Service
	orders   order.Service
	validate *validator.Validate
}

func NewAdminHandler(products product.Service, orders order.Service) *AdminHandler {
	return &AdminHandler{
		products: products,
		orders:   orders,
		validate: validator.New(),
	}
}

func (h *AdminHandler) RegisterRoutes(router chi.Router) {
	router.Get("/orders/", h.handleListOrders)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Get("/products/{id}", h.handleGetProduct)
	router.Post("/products", h.handleCreateProduct)
	router.Put("/products/{id}", h.handleUpdateProduct)
	router.Delete("/products/{id}", h.handleDeleteProduct)
}

func (h *AdminHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
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

func (h *AdminHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	foundProduct, err := h.products.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}

		log.Error().Err(err).Int64("product_id", id).Msg("Failed to get product via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	respondWithJSON(w, http.StatusOK, foundProduct)
}

func (h *AdminHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	requestPayload, ok := h.decodeProductRequest(w, r)
	if !ok {
		return
	}

	domainProduct := product.Product{
		Name:        requestPayload.Name,
		Description: requestPayload.Description,
		Price:       requestPayload.Price,
		Stock:       requestPayload.Stock,
	}

	created, err := h.products.CreateProduct(r.Context(), &domainProduct)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create product via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	requestPayload, ok := h.decodeProductRequest(w, r)
	if !ok {
		return
	}

	domainProduct := product.Product{
		ID:          id,
		Name:        requestPayload.Name,
		Description: requestPayload.Description,
		Price:       requestPayload.Price,
		Stock:       requestPayload.Stock,
	}

	if err := h.products.UpdateProduct(r.Context(), &domainProduct); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}

		log.Error().Err(err).Int64("product_id", id).Msg("Failed to update product via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}

		log.Error().Err(err).Int64("product_id", id).Msg("Failed to delete product via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) decodeProductRequest(w http.ResponseWriter, r *http.Request) (ProductRequest, bool) {
	var requestPayload ProductRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode product payload")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return ProductRequest{}, false
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		if !respondWithValidationErrors(w, err) {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return ProductRequest{}, false
	}

	return requestPayload, true
}
