package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	catalogpostgres "github.com/Apurer/go-order-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-order-api-server/internal/domains/catalog/application"
	customerspostgres "github.com/Apurer/go-order-api-server/internal/domains/customers/adapters/persistence/postgres"
	customersapp "github.com/Apurer/go-order-api-server/internal/domains/customers/application"
	"github.com/Apurer/go-order-api-server/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-order-api-server/internal/platform/postgres"
)

// Seeds the database with a demo customer and a small catalog so the API can
// accept orders right after startup.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOptional(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot seed")
	}
	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	customers := customersapp.NewService(customerspostgres.NewRepository(db))
	catalog := catalogapp.NewService(catalogpostgres.NewRepository(db))

	customer, err := customers.CreateCustomer(ctx, "Ada Lovelace", "ada@example.com")
	if err != nil && !errors.Is(err, customersapp.ErrEmailTaken) {
		log.Fatalf("failed to seed customer: %v", err)
	}
	if customer != nil {
		log.Printf("seeded customer %s", customer.ID)
	}

	products := []struct {
		name     string
		price    float64
		quantity int
	}{
		{"Mechanical Keyboard", 129.90, 25},
		{"Laptop Stand", 49.50, 40},
		{"USB-C Dock", 89.00, 15},
	}
	for _, p := range products {
		product, err := catalog.CreateProduct(ctx, p.name, p.price, p.quantity)
		if err != nil {
			log.Fatalf("failed to seed product %q: %v", p.name, err)
		}
		log.Printf("seeded product %s (%s)", product.ID, product.Name)
	}
	log.Printf("seed completed")
}
