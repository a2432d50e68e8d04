package order

import (
	"errors"
	"fmt"
	"time"
)

type LineItemStatus string

const (
	StatusPending   LineItemStatus = "pending"
	StatusProcessed LineItemStatus = "processed"
	StatusShipped   LineItemStatus = "shipped"
	StatusDelivered LineItemStatus = "delivered"
)

func (s LineItemStatus) String() string {
	return string(s)
}

// LineItem is one product-quantity entry within an order. PricePerUnit is
// the product price frozen at the moment the order was placed; later price
// changes do not affect historical orders.
type LineItem struct {
	ID           int64          `json:"id" db:"id"`
	OrderID      int64          `json:"order_id" db:"order_id"`
	ProductID    int64          `json:"product_id" db:"product_id"`
	Quantity     int            `json:"quantity" db:"quantity"`
	PricePerUnit float64        `json:"price_per_unit" db:"price_per_unit"`
	Status       LineItemStatus `json:"status" db:"status"`
}

type Order struct {
	ID         int64      `json:"id" db:"id"`
	CustomerID int64      `json:"customer_id" db:"customer_id"`
	OrderDate  time.Time  `json:"order_date" db:"order_date"`
	Items      []LineItem `json:"items" db:"-"`
}

// PlacementItem is one requested (product, quantity) pair.
type PlacementItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Placement is the result of a successful order placement.
type Placement struct {
	OrderID    int64   `json:"order_id"`
	CustomerID int64   `json:"customer_id"`
	TotalPrice float64 `json:"total_price"`
}

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrLineItemNotFound = errors.New("order line item not found")
)

type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
