package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/user"
)

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		registerFunc   func(ctx context.Context, u *user.User, password string) (*user.User, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: `{"username":"alice","email":"alice@example.com","first_name":"Alice","last_name":"Smith","password":"password123","is_admin":false}`,
			registerFunc: func(ctx context.Context, u *user.User, password string) (*user.User, error) {
				u.ID = 1
				return u, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid_json",
			body:           `{"username":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing_email",
			body:           `{"username":"alice","first_name":"Alice","last_name":"Smith","password":"password123"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "short_password",
			body:           `{"username":"alice","email":"alice@example.com","first_name":"Alice","last_name":"Smith","password":"short"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate_email",
			body: `{"username":"alice","email":"alice@example.com","first_name":"Alice","last_name":"Smith","password":"password123"}`,
			registerFunc: func(ctx context.Context, u *user.User, password string) (*user.User, error) {
				return nil, user.ErrEmailExists
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "duplicate_username",
			body: `{"username":"alice","email":"alice@example.com","first_name":"Alice","last_name":"Smith","password":"password123"}`,
			registerFunc: func(ctx context.Context, u *user.User, password string) (*user.User, error) {
				return nil, user.ErrUsernameExists
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserService{registerFunc: tt.registerFunc}
			router, _ := testRouter(users, &mockProductService{}, &mockOrderService{})

			req := httptest.NewRequest(http.MethodPost, "/auth/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusCreated {
				// Password must never appear in the response.
				assert.NotContains(t, w.Body.String(), "password123")
			}
		})
	}
}

func TestAuthHandler_Token(t *testing.T) {
	storedUser := &user.User{ID: 7, Username: "alice", IsActive: true}

	tests := []struct {
		name             string
		form             url.Values
		authenticateFunc func(ctx context.Context, username, password string) (*user.User, error)
		expectedStatus   int
	}{
		{
			name: "success",
			form: url.Values{"username": {"alice"}, "password": {"password123"}},
			authenticateFunc: func(ctx context.Context, username, password string) (*user.User, error) {
				return storedUser, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "bad_credentials",
			form: url.Values{"username": {"alice"}, "password": {"wrong"}},
			authenticateFunc: func(ctx context.Context, username, password string) (*user.User, error) {
				return nil, user.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing_fields",
			form:           url.Values{"username": {"alice"}},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserService{authenticateFunc: tt.authenticateFunc}
			router, tokens := testRouter(users, &mockProductService{}, &mockOrderService{})

			req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus != http.StatusOK {
				return
			}

			var tokenResponse TokenResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenResponse))
			assert.Equal(t, "bearer", tokenResponse.TokenType)

			claims, err := tokens.Parse(tokenResponse.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Subject)
			assert.Equal(t, int64(7), claims.UserID)
		})
	}
}
