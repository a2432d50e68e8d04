package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/auth"
	"shop-backend/internal/order"
	"shop-backend/internal/product"
	"shop-backend/internal/user"
)

type mockUserService struct {
	registerFunc     func(ctx context.Context, u *user.User, password string) (*user.User, error)
	authenticateFunc func(ctx context.Context, username, password string) (*user.User, error)
}

func (m *mockUserService) Register(ctx context.Context, u *user.User, password string) (*user.User, error) {
	return m.registerFunc(ctx, u, password)
}

func (m *mockUserService) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	return m.authenticateFunc(ctx, username, password)
}

type mockProductService struct {
	createFunc  func(ctx context.Context, p *product.Product) (*product.Product, error)
	getByIDFunc func(ctx context.Context, id int64) (*product.Product, error)
	listFunc    func(ctx context.Context) ([]product.Product, error)
	updateFunc  func(ctx context.Context, p *product.Product) error
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockProductService) CreateProduct(ctx context.Context, p *product.Product) (*product.Product, error) {
	return m.createFunc(ctx, p)
}

func (m *mockProductService) GetProductByID(ctx context.Context, id int64) (*product.Product, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockProductService) ListProducts(ctx context.Context) ([]product.Product, error) {
	return m.listFunc(ctx)
}

func (m *mockProductService) UpdateProduct(ctx context.Context, p *product.Product) error {
	return m.updateFunc(ctx, p)
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

type mockOrderService struct {
	placeOrderFunc        func(ctx context.Context, customerID int64, items []order.PlacementItem) (*order.Placement, error)
	getOrderByIDFunc      func(ctx context.Context, id int64) (*order.Order, error)
	listOrdersFunc        func(ctx context.Context) ([]order.Order, error)
	getLineItemStatusFunc func(ctx context.Context, id int64) (order.LineItemStatus, error)
}

func (m *mockOrderService) PlaceOrder(ctx context.Context, customerID int64, items []order.PlacementItem) (*order.Placement, error) {
	return m.placeOrderFunc(ctx, customerID, items)
}

func (m *mockOrderService) GetOrderByID(ctx context.Context, id int64) (*order.Order, error) {
	return m.getOrderByIDFunc(ctx, id)
}

func (m *mockOrderService) ListOrders(ctx context.Context) ([]order.Order, error) {
	return m.listOrdersFunc(ctx)
}

func (m *mockOrderService) GetLineItemStatus(ctx context.Context, id int64) (order.LineItemStatus, error) {
	return m.getLineItemStatusFunc(ctx, id)
}

// testRouter builds the full router with mock services and a real token
// manager, so tests exercise the same middleware chain as production.
func testRouter(users user.Service, products product.Service, orders order.Service) (*chi.Mux, *auth.TokenManager) {
	tokens := auth.NewTokenManager("handler-test-secret", time.Minute)
	return NewRouter(users, products, orders, tokens), tokens
}

func bearerToken(t *testing.T, tokens *auth.TokenManager, u *user.User) string {
	t.Helper()

	token, err := tokens.Issue(u)
	require.NoError(t, err)

	return "Bearer " + token
}

func authorize(req *http.Request, token string) {
	req.Header.Set("Authorization", token)
}
