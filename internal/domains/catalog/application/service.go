package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/catalog/ports"
)

// Service orchestrates the catalog bounded context use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateProduct registers a catalog entry with its initial stock.
func (s *Service) CreateProduct(ctx context.Context, name string, price float64, quantity int) (*domain.Product, error) {
	product, err := domain.NewProduct(name, price, quantity)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

func (s *Service) GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// FindProductsByID resolves the requested ids in one batch; missing ids are
// absent from the result rather than an error.
func (s *Service) FindProductsByID(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	return s.repo.FindAllByID(ctx, ids)
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

var _ ports.Service = (*Service)(nil)
