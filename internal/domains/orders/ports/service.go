package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
)

// Service exposes order placement use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

// WorkflowOrchestrator starts the durable order placement flow. It is the
// caller that owns retries: the core itself never retries a failed commit.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
}
