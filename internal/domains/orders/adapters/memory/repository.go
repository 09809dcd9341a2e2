package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	catalogmemory "github.com/Apurer/go-order-api-server/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/go-order-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the in-process order committer. Atomicity comes from running
// the re-check, the decrements, and the order insert inside the catalog
// store's transaction hook, so all stock writers in the process serialize on
// one lock registry.
type Repository struct {
	catalog *catalogmemory.Repository

	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

func NewRepository(catalog *catalogmemory.Repository) *Repository {
	return &Repository{catalog: catalog, orders: map[uuid.UUID]*domain.Order{}}
}

// Commit re-verifies every product's availability under the catalog lock,
// applies all decrements, and inserts the order. A shortage aborts the whole
// unit before any quantity is touched.
func (r *Repository) Commit(ctx context.Context, order *domain.Order, deltas []domain.StockDelta) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if r.catalog == nil {
		return nil, errors.New("memory order repository not configured")
	}

	clone := *order
	clone.Items = append([]domain.LineItem(nil), order.Items...)
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	clone.CreatedAt = time.Now().UTC()

	err := r.catalog.Tx(ctx, func(products map[uuid.UUID]*catalogdomain.Product) error {
		for _, delta := range deltas {
			product, ok := products[delta.ProductID]
			if !ok {
				return fmt.Errorf("%w: %s", ports.ErrProductNotFound, delta.ProductID)
			}
			if err := domain.EnsureAvailable(delta.ProductID, product.Quantity, delta.Requested); err != nil {
				return err
			}
		}
		for _, delta := range deltas {
			products[delta.ProductID].Quantity -= delta.Requested
		}
		r.mu.Lock()
		r.orders[clone.ID] = &clone
		r.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := clone
	result.Items = append([]domain.LineItem(nil), clone.Items...)
	return &result, nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	clone.Items = append([]domain.LineItem(nil), order.Items...)
	return &clone, nil
}
