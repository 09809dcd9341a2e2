package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-order-api-server/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-order-api-server/internal/domains/catalog/ports"
)

func TestCreateProduct_Success(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	product, err := svc.CreateProduct(context.Background(), "Keyboard", 129.90, 25)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, product.ID)
	require.Equal(t, "Keyboard", product.Name)
	require.Equal(t, 129.90, product.Price)
	require.Equal(t, 25, product.Quantity)
}

func TestCreateProduct_InvalidInput(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	_, err := svc.CreateProduct(context.Background(), "", 10, 1)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProduct(context.Background(), "Keyboard", -1, 1)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProduct(context.Background(), "Keyboard", 10, -1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFindProductsByID_SkipsMissing(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	first, err := svc.CreateProduct(context.Background(), "Keyboard", 10, 5)
	require.NoError(t, err)
	second, err := svc.CreateProduct(context.Background(), "Dock", 20, 3)
	require.NoError(t, err)

	found, err := svc.FindProductsByID(context.Background(), []uuid.UUID{first.ID, uuid.New(), second.ID})
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestGetProductByID_NotFound(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	_, err := svc.GetProductByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListProducts(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	_, err := svc.CreateProduct(context.Background(), "Keyboard", 10, 5)
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), "Dock", 20, 3)
	require.NoError(t, err)

	list, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
}
