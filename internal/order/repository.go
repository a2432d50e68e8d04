package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type Repository interface {
	PlaceOrder(ctx context.Context, customerID int64, items []PlacementItem) (*Placement, error)
	GetOrderByID(ctx context.Context, id int64) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	GetLineItemStatus(ctx context.Context, id int64) (LineItemStatus, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// PlaceOrder runs the whole placement as one transaction: the order row, the
// per-item stock checks and decrements and the line-item inserts either all
// commit or all roll back. Product rows are locked FOR UPDATE before the
// stock check, so concurrent placements against the same product serialize
// and stock can never go negative.
func (r *postgresRepository) PlaceOrder(ctx context.Context, customerID int64, items []PlacementItem) (placement *Placement, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Error().Err(rbErr).Int64("customer_id", customerID).Msg("repository: failed to rollback placement transaction")
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			log.Error().Err(commitErr).Int64("customer_id", customerID).Msg("repository: failed to commit placement transaction")
			placement = nil
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (customer_id) VALUES ($1) RETURNING id`,
		customerID,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	total := 0.0
	for _, item := range items {
		var price float64
		var stock int

		err = tx.QueryRow(ctx,
			`SELECT price, stock FROM products WHERE id = $1 FOR UPDATE`,
			item.ProductID,
		).Scan(&price, &stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = &ProductNotFoundError{ProductID: item.ProductID}
				return nil, err
			}
			return nil, fmt.Errorf("repository: failed to lock product %d: %w", item.ProductID, err)
		}

		if stock < item.Quantity {
			err = &InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: stock,
			}
			return nil, err
		}

		_, err = tx.Exec(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2`,
			item.Quantity, item.ProductID,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to decrement stock for product %d: %w", item.ProductID, err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO order_line_items (order_id, product_id, quantity, price_per_unit, status)
			 VALUES ($1, $2, $3, $4, $5)`,
			orderID, item.ProductID, item.Quantity, price, StatusPending,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to insert line item for order %d: %w", orderID, err)
		}

		total += price * float64(item.Quantity)
	}

	return &Placement{
		OrderID:    orderID,
		CustomerID: customerID,
		TotalPrice: total,
	}, nil
}

func (r *postgresRepository) GetOrderByID(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.db.QueryRow(ctx,
		`SELECT id, customer_id, order_date FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.CustomerID, &o.OrderDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("repository: failed to select order by id %d: %w", orderID, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_id, quantity, price_per_unit, status
		 FROM order_line_items
		 WHERE order_id = $1
		 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query line items for order %d: %w", orderID, err)
	}
	defer rows.Close()

	items := make([]LineItem, 0)
	for rows.Next() {
		var item LineItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.PricePerUnit,
			&item.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan line item for order %d: %w", orderID, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating line items for order %d: %w", orderID, err)
	}

	o.Items = items

	return &o, nil
}

func (r *postgresRepository) ListOrders(ctx context.Context) ([]Order, error) {
	orderRows, err := r.db.Query(ctx,
		`SELECT id, customer_id, order_date FROM orders ORDER BY order_date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer orderRows.Close()

	ordersMap := make(map[int64]*Order)
	var orderIDs []int64

	for orderRows.Next() {
		var o Order
		if err := orderRows.Scan(&o.ID, &o.CustomerID, &o.OrderDate); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		o.Items = make([]LineItem, 0)
		ordersMap[o.ID] = &o
		orderIDs = append(orderIDs, o.ID)
	}

	if err := orderRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	itemRows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_id, quantity, price_per_unit, status
		 FROM order_line_items
		 WHERE order_id = ANY($1)
		 ORDER BY id`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query line items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item LineItem
		err := itemRows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.PricePerUnit,
			&item.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan line item: %w", err)
		}

		if o, ok := ordersMap[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating line items: %w", err)
	}

	orders := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *ordersMap[id])
	}

	return orders, nil
}

func (r *postgresRepository) GetLineItemStatus(ctx context.Context, id int64) (LineItemStatus, error) {
	var status LineItemStatus
	err := r.db.QueryRow(ctx,
		`SELECT status FROM order_line_items WHERE id = $1`,
		id,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrLineItemNotFound
		}

		return "", fmt.Errorf("repository: failed to select line item %d: %w", id, err)
	}

	return status, nil
}
