package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInsufficientStock is the sentinel matched by errors.Is for any shortage,
// whether detected optimistically at validation or authoritatively at commit.
var ErrInsufficientStock = errors.New("available stock is not sufficient")

// ErrNegativeDelta indicates an allocation produced a negative remaining
// quantity. That is a validator defect, not a user error.
var ErrNegativeDelta = errors.New("stock delta would drive quantity negative")

// InsufficientStockError identifies the offending product and the quantities
// involved.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s requested %d available %d",
		ErrInsufficientStock, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ProductState is the catalog state observed for one product during
// validation: current price and available quantity.
type ProductState struct {
	ID       uuid.UUID
	Price    float64
	Quantity int
}

// StockDelta carries the post-decrement quantity to write back for one
// product. Requested is the combined demand across all request lines for
// that product.
type StockDelta struct {
	ProductID   uuid.UUID
	Requested   int
	NewQuantity int
}

// EnsureAvailable is the single sufficiency predicate. The validator applies
// it against the state observed at resolution time; the committer applies the
// same rule against the latest catalog state inside the atomic unit.
func EnsureAvailable(productID uuid.UUID, available, requested int) error {
	if requested > available {
		return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
	}
	return nil
}

// Allocate derives the stock deltas and priced line items for a validated
// request. Demand is combined per distinct product so duplicate lines cannot
// slip past the sufficiency check individually, while line items keep the
// request's own granularity. Pure computation; the only failure mode is the
// defensive negative-delta check.
func Allocate(lines []LineInput, products map[uuid.UUID]ProductState) ([]StockDelta, []LineItem, error) {
	demand := map[uuid.UUID]int{}
	ordered := make([]uuid.UUID, 0, len(lines))
	items := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, nil, fmt.Errorf("product %s missing from validated set", line.ProductID)
		}
		if _, seen := demand[line.ProductID]; !seen {
			ordered = append(ordered, line.ProductID)
		}
		demand[line.ProductID] += line.Quantity
		items = append(items, LineItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	deltas := make([]StockDelta, 0, len(ordered))
	for _, id := range ordered {
		remaining := products[id].Quantity - demand[id]
		if remaining < 0 {
			return nil, nil, fmt.Errorf("%w: product %s", ErrNegativeDelta, id)
		}
		deltas = append(deltas, StockDelta{ProductID: id, Requested: demand[id], NewQuantity: remaining})
	}
	return deltas, items, nil
}
