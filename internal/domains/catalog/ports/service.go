package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateProduct(ctx context.Context, name string, price float64, quantity int) (*domain.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindProductsByID(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}
