package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/order"
	"shop-backend/internal/product"
	"shop-backend/internal/user"
)

var customer = &user.User{ID: 5, Username: "carol", IsActive: true}

func TestCustomerHandler_ListProducts(t *testing.T) {
	products := &mockProductService{
		listFunc: func(ctx context.Context) ([]product.Product, error) {
			return []product.Product{{ID: 1, Name: "widget", Price: 10.0, Stock: 3}}, nil
		},
	}
	router, tokens := testRouter(&mockUserService{}, products, &mockOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/customer/products", nil)
	authorize(req, bearerToken(t, tokens, customer))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []product.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "widget", got[0].Name)
}

func TestCustomerHandler_ListProducts_Unauthenticated(t *testing.T) {
	router, _ := testRouter(&mockUserService{}, &mockProductService{}, &mockOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/customer/products", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerHandler_GetOrder(t *testing.T) {
	orderDate := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		path           string
		getOrderByID   func(ctx context.Context, id int64) (*order.Order, error)
		expectedStatus int
	}{
		{
			name: "success",
			path: "/customer/orders/10",
			getOrderByID: func(ctx context.Context, id int64) (*order.Order, error) {
				return &order.Order{ID: 10, CustomerID: 5, OrderDate: orderDate}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not_found",
			path: "/customer/orders/99",
			getOrderByID: func(ctx context.Context, id int64) (*order.Order, error) {
				return nil, order.ErrOrderNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid_id",
			path:           "/customer/orders/abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &mockOrderService{getOrderByIDFunc: tt.getOrderByID}
			router, tokens := testRouter(&mockUserService{}, &mockProductService{}, orders)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			authorize(req, bearerToken(t, tokens, customer))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCustomerHandler_GetLineItemStatus(t *testing.T) {
	orders := &mockOrderService{
		getLineItemStatusFunc: func(ctx context.Context, id int64) (order.LineItemStatus, error) {
			if id == 3 {
				return order.StatusPending, nil
			}
			return "", order.ErrLineItemNotFound
		},
	}
	router, tokens := testRouter(&mockUserService{}, &mockProductService{}, orders)

	req := httptest.NewRequest(http.MethodGet, "/customer/orders/3/status", nil)
	authorize(req, bearerToken(t, tokens, customer))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"pending"`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/customer/orders/99/status", nil)
	authorize(req, bearerToken(t, tokens, customer))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerHandler_CreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		placeOrderFunc func(ctx context.Context, customerID int64, items []order.PlacementItem) (*order.Placement, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			body: `{"items":[{"product_id":1,"quantity":2}]}`,
			placeOrderFunc: func(ctx context.Context, customerID int64, items []order.PlacementItem) (*order.Placement, error) {
				require.Equal(t, int64(5), customerID)
				require.Equal(t, []order.PlacementItem{{ProductID: 1, Quantity: 2}}, items)
				return &order.Placement{OrderID: 10, CustomerID: customerID, TotalPrice: 20.0}, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"order_id":10,"customer_id":5,"total_price":20}`,
		},
		{
			name: "product_not_found",
			body: `{"items":[{"product_id":42,"quantity":1}]}`,
			placeOrderFunc: func(ctx context.Context, customerID int64, items []order.PlacementItem) (*order.Placement, error) {
				return nil, &order.ProductNotFoundError{ProductID: 42}
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"product 42 not found"}`,
		},
		{
			name: "insufficient_stock",
			body: `{"items":[{"product_id":1,"quantity":5}]}`,
			placeOrderFunc: func(ctx context.Context, customerID int64, items []order.PlacementItem) (*order.Placement, error) {
				return nil, &order.InsufficientStockError{ProductID: 1, Requested: 5, Available: 3}
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"insufficient stock for product 1: requested 5, available 3"}`,
		},
		{
			name:           "empty_items",
			body:           `{"items":[]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero_quantity",
			body:           `{"items":[{"product_id":1,"quantity":0}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid_json",
			body:           `{"items":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &mockOrderService{placeOrderFunc: tt.placeOrderFunc}
			router, tokens := testRouter(&mockUserService{}, &mockProductService{}, orders)

			req := httptest.NewRequest(http.MethodPost, "/customer/api/orders", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			authorize(req, bearerToken(t, tokens, customer))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
