package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-order-api-server/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/go-order-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
)

func seedProduct(t *testing.T, store *catalogmemory.Repository, quantity int) uuid.UUID {
	t.Helper()
	product, err := catalogdomain.NewProduct("Widget", 9.99, quantity)
	require.NoError(t, err)
	saved, err := store.Save(context.Background(), product)
	require.NoError(t, err)
	return saved.ID
}

func TestCommit_DecrementsAndStoresOrder(t *testing.T) {
	store := catalogmemory.NewRepository()
	repo := NewRepository(store)
	productID := seedProduct(t, store, 10)

	order := &domain.Order{
		CustomerID: uuid.New(),
		Items:      []domain.LineItem{{ProductID: productID, Quantity: 4, Price: 9.99}},
	}
	committed, err := repo.Commit(context.Background(), order, []domain.StockDelta{
		{ProductID: productID, Requested: 4, NewQuantity: 6},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, committed.ID)
	require.False(t, committed.CreatedAt.IsZero())

	product, err := store.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.Equal(t, 6, product.Quantity)

	fetched, err := repo.GetByID(context.Background(), committed.ID)
	require.NoError(t, err)
	require.Equal(t, committed.Items, fetched.Items)
}

func TestCommit_ShortageLeavesEverythingUntouched(t *testing.T) {
	store := catalogmemory.NewRepository()
	repo := NewRepository(store)
	firstID := seedProduct(t, store, 10)
	secondID := seedProduct(t, store, 1)

	order := &domain.Order{
		CustomerID: uuid.New(),
		Items: []domain.LineItem{
			{ProductID: firstID, Quantity: 2, Price: 9.99},
			{ProductID: secondID, Quantity: 5, Price: 9.99},
		},
	}
	_, err := repo.Commit(context.Background(), order, []domain.StockDelta{
		{ProductID: firstID, Requested: 2, NewQuantity: 8},
		{ProductID: secondID, Requested: 5, NewQuantity: -4},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// The first product keeps its full quantity even though its own delta
	// was satisfiable.
	first, err := store.GetByID(context.Background(), firstID)
	require.NoError(t, err)
	require.Equal(t, 10, first.Quantity)
}

func TestCommit_MissingProduct(t *testing.T) {
	store := catalogmemory.NewRepository()
	repo := NewRepository(store)

	order := &domain.Order{CustomerID: uuid.New()}
	_, err := repo.Commit(context.Background(), order, []domain.StockDelta{
		{ProductID: uuid.New(), Requested: 1},
	})
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestCommit_ConcurrentCommitsNeverOversell(t *testing.T) {
	store := catalogmemory.NewRepository()
	repo := NewRepository(store)
	productID := seedProduct(t, store, 5)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order := &domain.Order{
				CustomerID: uuid.New(),
				Items:      []domain.LineItem{{ProductID: productID, Quantity: 1, Price: 9.99}},
			}
			_, err := repo.Commit(context.Background(), order, []domain.StockDelta{
				{ProductID: productID, Requested: 1},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			rejected++
		}
	}
	require.Equal(t, 5, succeeded)
	require.Equal(t, attempts-5, rejected)

	product, err := store.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.Equal(t, 0, product.Quantity)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := NewRepository(catalogmemory.NewRepository())
	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)
}
