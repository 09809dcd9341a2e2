package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders. Commit is the single transactional boundary of
// the bounded context: it applies every stock decrement and inserts the order
// as one indivisible unit, re-verifying availability against the latest
// catalog state. Either all of it is durable or none of it is; no reader may
// observe decremented stock without the matching order or vice versa.
type Repository interface {
	// Commit returns the persisted order with its assigned identity. A
	// concurrent commit that consumed the stock first surfaces as
	// domain.ErrInsufficientStock; the whole unit aborts and nothing is
	// written.
	Commit(ctx context.Context, order *domain.Order, deltas []domain.StockDelta) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}
