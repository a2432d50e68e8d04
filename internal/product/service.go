package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(p *Product) error {
	if p.Name == "" {
		return errors.New("service: product name is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("service: product price must be non-negative, got %f", p.Price)
	}
	if p.Stock < 0 {
		return fmt.Errorf("service: product stock must be non-negative, got %d", p.Stock)
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	if _, err := s.repo.Create(ctx, p); err != nil {
		log.Error().Err(err).Str("name", p.Name).Msg("service: failed to create product in repository")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	log.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("service: product created")

	return p, nil
}

func (s *service) GetProductByID(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to get product by id in repository")
		return nil, fmt.Errorf("service: failed to get product by id %d: %w", id, err)
	}

	return p, nil
}

func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list products in repository")
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	return products, nil
}

func (s *service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := validate(p); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		log.Error().Err(err).Int64("product_id", p.ID).Msg("service: failed to update product in repository")
		return fmt.Errorf("service: failed to update product %d: %w", p.ID, err)
	}

	return nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to delete product in repository")
		return fmt.Errorf("service: failed to delete product %d: %w", id, err)
	}

	log.Info().Int64("product_id", id).Msg("service: product deleted")

	return nil
}
