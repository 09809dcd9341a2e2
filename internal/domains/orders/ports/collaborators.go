package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
)

// CustomerRef is the read-only view of a customer the orders context needs.
type CustomerRef struct {
	ID   uuid.UUID
	Name string
}

// CustomerDirectory resolves customers owned by the customers context.
// Absence is reported as ErrCustomerNotFound.
type CustomerDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerRef, error)
}

// ProductCatalog resolves current price and available quantity in one batch.
// Missing ids are simply absent from the result, not an error at this layer.
type ProductCatalog interface {
	FindAllByID(ctx context.Context, ids []uuid.UUID) ([]domain.ProductState, error)
}
