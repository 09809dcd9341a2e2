package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository persists product aggregates. FindAllByID returns only the
// products that exist; absent ids are simply missing from the result.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindAllByID(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}
