//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
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

	customerspostgres "github.com/Apurer/go-order-api-server/internal/domains/customers/adapters/persistence/postgres"
	"github.com/Apurer/go-order-api-server/internal/domains/customers/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/customers/ports"
	"github.com/Apurer/go-order-api-server/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("customers_test"),
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

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
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

func TestPostgresRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := customerspostgres.NewRepository(db)
	ctx := context.Background()

	customer, err := domain.NewCustomer("Grace Hopper", "grace@example.com")
	require.NoError(t, err)

	saved, err := repo.Save(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, saved.ID)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", fetched.Name)
	assert.Equal(t, "grace@example.com", fetched.Email)
}

func TestPostgresRepository_GetByEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := customerspostgres.NewRepository(db)
	ctx := context.Background()

	customer, err := domain.NewCustomer("Grace Hopper", "grace@example.com")
	require.NoError(t, err)
	_, err = repo.Save(ctx, customer)
	require.NoError(t, err)

	fetched, err := repo.GetByEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, fetched.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresRepository_SaveUpdatesExisting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := customerspostgres.NewRepository(db)
	ctx := context.Background()

	customer, err := domain.NewCustomer("Grace Hopper", "grace@example.com")
	require.NoError(t, err)
	_, err = repo.Save(ctx, customer)
	require.NoError(t, err)

	require.NoError(t, customer.Rename("Grace B. Hopper"))
	updated, err := repo.Save(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, updated.ID)
	assert.Equal(t, "Grace B. Hopper", updated.Name)
}

func TestPostgresRepository_GetByIDNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := customerspostgres.NewRepository(db)
	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
