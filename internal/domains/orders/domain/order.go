package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoLineItems     = errors.New("order must contain at least one line item")
	ErrInvalidQuantity = errors.New("requested quantity must be greater than zero")
)

// OrderRequest is the ephemeral input to order placement. Lines keep the
// caller's sequence; product ids may repeat and are resolved independently.
// IdempotencyKey is optional; when set, retries replay the stored outcome
// instead of committing a second order.
type OrderRequest struct {
	CustomerID     uuid.UUID
	Lines          []LineInput
	IdempotencyKey string
}

// LineInput is one requested product and quantity.
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// Validate enforces the structural invariants of a request before any
// collaborator is consulted.
func (r OrderRequest) Validate() error {
	if r.CustomerID == uuid.Nil {
		return errors.New("customer id is required")
	}
	if len(r.Lines) == 0 {
		return ErrNoLineItems
	}
	for _, line := range r.Lines {
		if line.ProductID == uuid.Nil {
			return errors.New("product id is required")
		}
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// LineItem is one product's committed quantity and price within an order.
// Price is the catalog price captured in the same transaction that
// decremented the stock, immutable once computed.
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
	Price     float64
}

// Order is the persistent outcome of a committed request. It is created
// exactly once and never mutated afterward.
type Order struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Items      []LineItem
	CreatedAt  time.Time
}

// Total sums the committed line amounts.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
