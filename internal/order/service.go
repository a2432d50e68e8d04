package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	PlaceOrder(ctx context.Context, customerID int64, items []PlacementItem) (*Placement, error)
	GetOrderByID(ctx context.Context, id int64) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	GetLineItemStatus(ctx context.Context, id int64) (LineItemStatus, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PlaceOrder(ctx context.Context, customerID int64, items []PlacementItem) (*Placement, error) {
	if len(items) == 0 {
		log.Warn().Int64("customer_id", customerID).Msg("service: attempt to place order with no items")
		return nil, errors.New("service: order must contain at least one item")
	}

	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, fmt.Errorf("service: invalid product id %d in order item", item.ProductID)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("service: quantity for product %d must be greater than zero", item.ProductID)
		}
	}

	placement, err := s.repo.PlaceOrder(ctx, customerID, items)
	if err != nil {
		var notFound *ProductNotFoundError
		var noStock *InsufficientStockError
		if errors.As(err, &notFound) || errors.As(err, &noStock) {
			log.Warn().Err(err).Int64("customer_id", customerID).Msg("service: order placement rejected")
			return nil, err
		}

		log.Error().Err(err).Int64("customer_id", customerID).Msg("service: failed to place order in repository")
		return nil, fmt.Errorf("service: failed to place order: %w", err)
	}

	log.Info().
		Int64("order_id", placement.OrderID).
		Int64("customer_id", placement.CustomerID).
		Float64("total_price", placement.TotalPrice).
		Int("item_count", len(items)).
		Msg("service: order placed successfully")

	return placement, nil
}

func (s *service) GetOrderByID(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}

		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to fetch order by id in repository")
		return nil, fmt.Errorf("service: failed to fetch order by id %d: %w", id, err)
	}

	return o, nil
}

func (s *service) ListOrders(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders in repository")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}

	return orders, nil
}

func (s *service) GetLineItemStatus(ctx context.Context, id int64) (LineItemStatus, error) {
	status, err := s.repo.GetLineItemStatus(ctx, id)
	if err != nil {
		if errors.Is(err, ErrLineItemNotFound) {
			return "", ErrLineItemNotFound
		}

		log.Error().Err(err).Int64("line_item_id", id).Msg("service: failed to fetch line item status in repository")
		return "", fmt.Errorf("service: failed to fetch line item status for %d: %w", id, err)
	}

	return status, nil
}
