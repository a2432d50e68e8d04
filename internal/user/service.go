package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, u *User, password string) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, u *User, password string) (*User, error) {
	if password == "" {
		return nil, errors.New("service: password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, fmt.Errorf("service: failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.IsActive = true

	if _, err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) || errors.Is(err, ErrUsernameExists) {
			return nil, err
		}

		log.Error().Err(err).Str("username", u.Username).Msg("service: failed to create user in repository")
		return nil, fmt.Errorf("service: failed to create user: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("service: user registered")

	return u, nil
}

// Authenticate returns ErrInvalidCredentials for unknown usernames, wrong
// passwords and deactivated accounts alike, so callers cannot probe which
// usernames exist.
func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		log.Error().Err(err).Str("username", username).Msg("service: failed to fetch user for authentication")
		return nil, fmt.Errorf("service: failed to authenticate user: %w", err)
	}

	if !u.IsActive {
		log.Warn().Str("username", username).Msg("service: login attempt for inactive user")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
