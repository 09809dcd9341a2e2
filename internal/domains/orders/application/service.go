package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
)

// Service orchestrates order placement: validate the request against current
// customer and catalog state, allocate stock deltas and price snapshots, then
// commit both sides through the repository's single transactional boundary.
type Service struct {
	customers   ports.CustomerDirectory
	catalog     ports.ProductCatalog
	repo        ports.Repository
	idempotency ports.IdempotencyStore
}

// Option customizes optional service collaborators.
type Option func(*Service)

// WithIdempotencyStore enables replay of repeated placement requests that
// carry the same idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

func NewService(customers ports.CustomerDirectory, catalog ports.ProductCatalog, repo ports.Repository, opts ...Option) *Service {
	s := &Service{customers: customers, catalog: catalog, repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder places an order or fails with one of the taxonomy errors:
// ports.ErrCustomerNotFound, ports.ErrProductNotFound,
// domain.ErrInsufficientStock, or ErrCommitFailed. Every failure path leaves
// customer, catalog, and order state untouched.
func (s *Service) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, mapRequestError(err)
	}

	requestHash, replayed, err := s.beginIdempotent(ctx, req)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	products, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	deltas, items, err := domain.Allocate(req.Lines, products)
	if err != nil {
		// A negative delta here means the validator let excess demand
		// through; surface it as an internal fault, not a user error.
		return nil, fmt.Errorf("allocating stock: %w", err)
	}

	order := &domain.Order{CustomerID: req.CustomerID, Items: items}
	committed, err := s.repo.Commit(ctx, order, deltas)
	if err != nil {
		return nil, mapCommitError(err)
	}
	if err := s.finishIdempotent(ctx, req, requestHash, committed); err != nil {
		return nil, err
	}
	return committed, nil
}

// beginIdempotent resolves a replay before any stock is touched. It returns
// the request fingerprint for the commit side, the stored order when the key
// was already fulfilled, or ErrIdempotencyConflict when the key was used with
// a different payload.
func (s *Service) beginIdempotent(ctx context.Context, req domain.OrderRequest) (string, *domain.Order, error) {
	if s.idempotency == nil || req.IdempotencyKey == "" {
		return "", nil, nil
	}
	requestHash, err := FingerprintOrderRequest(req)
	if err != nil {
		return "", nil, fmt.Errorf("fingerprinting request: %w", err)
	}
	record, err := s.idempotency.Get(ctx, req.IdempotencyKey)
	if err != nil {
		return "", nil, fmt.Errorf("loading idempotency record: %w", err)
	}
	if record == nil {
		return requestHash, nil, nil
	}
	if record.RequestHash != requestHash {
		return "", nil, fmt.Errorf("%w: key %q", ports.ErrIdempotencyConflict, req.IdempotencyKey)
	}
	order, err := s.repo.GetByID(ctx, record.OrderID)
	if err != nil {
		return "", nil, fmt.Errorf("replaying order %s: %w", record.OrderID, err)
	}
	return requestHash, order, nil
}

// finishIdempotent records the committed order under the request's key. A
// save conflict means a concurrent retry won the race with a different
// payload; the committed order stands either way, so only a genuine payload
// mismatch surfaces.
func (s *Service) finishIdempotent(ctx context.Context, req domain.OrderRequest, requestHash string, order *domain.Order) error {
	if s.idempotency == nil || req.IdempotencyKey == "" {
		return nil
	}
	_, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Key:         req.IdempotencyKey,
		RequestHash: requestHash,
		OrderID:     order.ID,
	})
	if err != nil && !errors.Is(err, ports.ErrIdempotencyConflict) {
		return fmt.Errorf("saving idempotency record: %w", err)
	}
	return nil
}

// validate resolves the customer and every requested product, then applies
// the sufficiency predicate against the observed quantities. The check here
// is advisory early feedback; the commit re-verifies under its own isolation
// because catalog state can move in between.
func (s *Service) validate(ctx context.Context, req domain.OrderRequest) (map[uuid.UUID]domain.ProductState, error) {
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, ports.ErrCustomerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolving customer %s: %w", req.CustomerID, err)
	}

	distinct := make([]uuid.UUID, 0, len(req.Lines))
	demand := map[uuid.UUID]int{}
	for _, line := range req.Lines {
		if _, seen := demand[line.ProductID]; !seen {
			distinct = append(distinct, line.ProductID)
		}
		demand[line.ProductID] += line.Quantity
	}

	found, err := s.catalog.FindAllByID(ctx, distinct)
	if err != nil {
		return nil, fmt.Errorf("resolving products: %w", err)
	}
	products := make(map[uuid.UUID]domain.ProductState, len(found))
	for _, product := range found {
		products[product.ID] = product
	}

	for _, id := range distinct {
		product, ok := products[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ports.ErrProductNotFound, id)
		}
		if err := domain.EnsureAvailable(id, product.Quantity, demand[id]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

var _ ports.Service = (*Service)(nil)
