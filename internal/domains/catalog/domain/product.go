package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("product name is required")
	ErrNegativePrice    = errors.New("product price must not be negative")
	ErrNegativeQuantity = errors.New("product quantity must not be negative")
)

// Product models a catalog entry with its available stock. Quantity counts
// units not yet committed to any order and must never observe a negative value.
type Product struct {
	ID       uuid.UUID
	Name     string
	Price    float64
	Quantity int
}

// NewProduct validates and constructs a new Product aggregate.
func NewProduct(name string, price float64, quantity int) (*Product, error) {
	product := &Product{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(name),
		Price:    price,
		Quantity: quantity,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// Reprice updates the listed price.
func (p *Product) Reprice(price float64) error {
	if price < 0 {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}

// Restock sets the available quantity.
func (p *Product) Restock(quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	p.Quantity = quantity
	return nil
}
