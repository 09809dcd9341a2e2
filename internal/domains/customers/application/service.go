package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/customers/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/customers/ports"
)

// Service orchestrates the customers bounded context use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateCustomer registers a new customer. The email must not already be taken.
func (s *Service) CreateCustomer(ctx context.Context, name, email string) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(name, email)
	if err != nil {
		return nil, mapError(err)
	}
	if existing, err := s.repo.GetByEmail(ctx, customer.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	return s.repo.Save(ctx, customer)
}

func (s *Service) GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

var _ ports.Service = (*Service)(nil)
