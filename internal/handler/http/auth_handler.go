package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"shop-backend/internal/auth"
	"shop-backend/internal/user"
)

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required,min=2"`
	Password  string `json:"password" validate:"required,min=8"`
	IsAdmin   bool   `json:"is_admin"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthHandler struct {
	users    user.Service
	tokens   *auth.TokenManager
	validate *validator.Validate
}

func NewAuthHandler(users user.Service, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
	}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Route("/auth", func(r chi.Router) {
		r.Post("/", h.handleRegister)
		r.Post("/token", h.handleToken)
	})
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateUserRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode registration payload")
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

	domainUser := user.User{
		Username:  requestPayload.Username,
		Email:     requestPayload.Email,
		FirstName: requestPayload.FirstName,
		LastName:  requestPayload.LastName,
		IsAdmin:   requestPayload.IsAdmin,
	}

	registered, err := h.users.Register(r.Context(), &domainUser, requestPayload.Password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register user via service")

		var clientMessage string
		switch {
		case errors.Is(err, user.ErrEmailExists):
			clientMessage = "Email already exists"
		case errors.Is(err, user.ErrUsernameExists):
			clientMessage = "Username already exists"
		default:
			clientMessage = "Failed to register user"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, UserResponse{
		ID:        registered.ID,
		Username:  registered.Username,
		Email:     registered.Email,
		FirstName: registered.FirstName,
		LastName:  registered.LastName,
		IsAdmin:   registered.IsAdmin,
		CreatedAt: registered.CreatedAt,
	})
}

// handleToken exchanges form credentials for a bearer token.
func (h *AuthHandler) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form payload")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	authenticated, err := h.users.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}

		log.Error().Err(err).Msg("Failed to authenticate user via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	token, err := h.tokens.Issue(authenticated)
	if err != nil {
		log.Error().Err(err).Int64("user_id", authenticated.ID).Msg("Failed to issue token")
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
