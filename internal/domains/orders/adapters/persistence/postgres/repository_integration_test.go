//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/go-order-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/Apurer/go-order-api-server/internal/domains/catalog/domain"
	orderspostgres "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/persistence/postgres"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
	"github.com/Apurer/go-order-api-server/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedProduct(t *testing.T, db *gorm.DB, quantity int) uuid.UUID {
	t.Helper()
	repo := catalogpostgres.NewRepository(db)
	product, err := catalogdomain.NewProduct("Widget", 9.99, quantity)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), product)
	require.NoError(t, err)
	return saved.ID
}

func productQuantity(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	product, err := catalogpostgres.NewRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return product.Quantity
}

func TestPostgresRepository_CommitAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()
	productID := seedProduct(t, db, 10)

	order := &domain.Order{
		CustomerID: uuid.New(),
		Items:      []domain.LineItem{{ProductID: productID, Quantity: 4, Price: 9.99}},
	}
	committed, err := repo.Commit(ctx, order, []domain.StockDelta{
		{ProductID: productID, Requested: 4, NewQuantity: 6},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, committed.ID)
	assert.False(t, committed.CreatedAt.IsZero())
	assert.Equal(t, 6, productQuantity(t, db, productID))

	fetched, err := repo.GetByID(ctx, committed.ID)
	require.NoError(t, err)
	assert.Equal(t, committed.ID, fetched.ID)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, 4, fetched.Items[0].Quantity)
	assert.Equal(t, 9.99, fetched.Items[0].Price)
}

func TestPostgresRepository_CommitShortageRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()
	firstID := seedProduct(t, db, 10)
	secondID := seedProduct(t, db, 1)

	order := &domain.Order{
		CustomerID: uuid.New(),
		Items: []domain.LineItem{
			{ProductID: firstID, Quantity: 2, Price: 9.99},
			{ProductID: secondID, Quantity: 5, Price: 9.99},
		},
	}
	_, err := repo.Commit(ctx, order, []domain.StockDelta{
		{ProductID: firstID, Requested: 2},
		{ProductID: secondID, Requested: 5},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.InsufficientStockError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, secondID, shortage.ProductID)
	assert.Equal(t, 5, shortage.Requested)
	assert.Equal(t, 1, shortage.Available)

	// The first decrement must roll back with the failed unit.
	assert.Equal(t, 10, productQuantity(t, db, firstID))
	assert.Equal(t, 1, productQuantity(t, db, secondID))
}

func TestPostgresRepository_CommitUnknownProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	order := &domain.Order{CustomerID: uuid.New()}
	_, err := repo.Commit(context.Background(), order, []domain.StockDelta{
		{ProductID: uuid.New(), Requested: 1},
	})
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestPostgresRepository_ConcurrentCommitsNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	productID := seedProduct(t, db, 5)

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
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, attempts-5, rejected)
	assert.Equal(t, 0, productQuantity(t, db, productID))
}

func TestPostgresRepository_GetByIDNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresIdempotencyStore_SaveAndReplay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := orderspostgres.NewIdempotencyStore(db)
	ctx := context.Background()

	missing, err := store.Get(ctx, "order-attempt-1")
	require.NoError(t, err)
	require.Nil(t, missing)

	record := ports.IdempotencyRecord{
		Key:         "order-attempt-1",
		RequestHash: "a1b2c3",
		OrderID:     uuid.New(),
	}
	saved, err := store.Save(ctx, record)
	require.NoError(t, err)
	require.Equal(t, record.OrderID, saved.OrderID)

	// Saving the same key with the same hash and order replays the record.
	replayed, err := store.Save(ctx, record)
	require.NoError(t, err)
	require.Equal(t, record.OrderID, replayed.OrderID)

	loaded, err := store.Get(ctx, record.Key)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, record.RequestHash, loaded.RequestHash)
	require.Equal(t, record.OrderID, loaded.OrderID)
}

func TestPostgresIdempotencyStore_ConflictOnDifferentPayload(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := orderspostgres.NewIdempotencyStore(db)
	ctx := context.Background()

	original := ports.IdempotencyRecord{
		Key:         "order-attempt-1",
		RequestHash: "a1b2c3",
		OrderID:     uuid.New(),
	}
	_, err := store.Save(ctx, original)
	require.NoError(t, err)

	conflicting := original
	conflicting.RequestHash = "d4e5f6"
	stored, err := store.Save(ctx, conflicting)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.NotNil(t, stored)
	require.Equal(t, original.RequestHash, stored.RequestHash)
}
