package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, u *User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, u *User) (int64, error) {
	query := `
		INSERT INTO users (email, username, first_name, last_name, password_hash, is_active, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		u.Email,
		u.Username,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		u.IsActive,
		u.IsAdmin,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return 0, ErrUsernameExists
			}
			return 0, ErrEmailExists
		}

		return 0, fmt.Errorf("repository: failed to insert user: %w", err)
	}

	return u.ID, nil
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, email, username, first_name, last_name, password_hash, is_active, is_admin, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	u, err := r.scanOne(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("repository: failed to select user by username %q: %w", username, err)
	}

	return u, nil
}

func (r *postgresRepository) scanOne(row pgx.Row) (*User, error) {
	var u User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &u, nil
}
