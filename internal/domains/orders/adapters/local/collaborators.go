// Package local adapts the in-process customers and catalog services onto
// the collaborator ports the orders context consumes.
package local

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	catalogports "github.com/Apurer/go-order-api-server/internal/domains/catalog/ports"
	customerports "github.com/Apurer/go-order-api-server/internal/domains/customers/ports"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
)

var (
	_ ports.CustomerDirectory = (*CustomerDirectory)(nil)
	_ ports.ProductCatalog    = (*ProductCatalog)(nil)
)

// CustomerDirectory resolves customers through the customers service.
type CustomerDirectory struct {
	customers customerports.Service
}

func NewCustomerDirectory(customers customerports.Service) *CustomerDirectory {
	return &CustomerDirectory{customers: customers}
}

func (d *CustomerDirectory) FindByID(ctx context.Context, id uuid.UUID) (*ports.CustomerRef, error) {
	customer, err := d.customers.GetCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, customerports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ports.ErrCustomerNotFound, id)
		}
		return nil, err
	}
	return &ports.CustomerRef{ID: customer.ID, Name: customer.Name}, nil
}

// ProductCatalog resolves product state through the catalog service.
type ProductCatalog struct {
	catalog catalogports.Service
}

func NewProductCatalog(catalog catalogports.Service) *ProductCatalog {
	return &ProductCatalog{catalog: catalog}
}

func (c *ProductCatalog) FindAllByID(ctx context.Context, ids []uuid.UUID) ([]domain.ProductState, error) {
	products, err := c.catalog.FindProductsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	states := make([]domain.ProductState, 0, len(products))
	for _, product := range products {
		states = append(states, domain.ProductState{
			ID:       product.ID,
			Price:    product.Price,
			Quantity: product.Quantity,
		})
	}
	return states, nil
}
