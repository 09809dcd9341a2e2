package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/Apurer/go-order-api-server/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-order-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-order-api-server/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-order-api-server/internal/domains/catalog/ports"
	customersmemory "github.com/Apurer/go-order-api-server/internal/domains/customers/adapters/memory"
	customerspostgres "github.com/Apurer/go-order-api-server/internal/domains/customers/adapters/persistence/postgres"
	customersapp "github.com/Apurer/go-order-api-server/internal/domains/customers/application"
	customersports "github.com/Apurer/go-order-api-server/internal/domains/customers/ports"
	orderslocal "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/local"
	ordersmemory "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-order-api-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-order-api-server/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-order-api-server/internal/durable/temporal/workflows/orders"
	"github.com/Apurer/go-order-api-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-order-api-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-api-server/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "orders-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderService, cleanupRepo := buildOrderService(ctx, logger, instruments)
	defer cleanupRepo()
	orderActivities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderService(ctx context.Context, logger *slog.Logger, instruments *platformobservability.Instruments) (ordersports.Service, func()) {
	var (
		customerRepo     customersports.Repository
		productRepo      catalogports.Repository
		orderRepo        ordersports.Repository
		idempotencyStore ordersports.IdempotencyStore
	)
	cleanup := func() {}
	db, cleanupDB := platformpostgres.ConnectOptional(ctx, os.Getenv("POSTGRES_DSN"), logger)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		customerRepo = customerspostgres.NewRepository(db)
		productRepo = catalogpostgres.NewRepository(db)
		orderRepo = orderspostgres.NewRepository(db)
		idempotencyStore = orderspostgres.NewIdempotencyStore(db)
		cleanup = cleanupDB
	} else {
		catalogStore := catalogmemory.NewRepository()
		customerRepo = customersmemory.NewRepository()
		productRepo = catalogStore
		orderRepo = ordersmemory.NewRepository(catalogStore)
		idempotencyStore = ordersmemory.NewIdempotencyStore()
	}

	customerService := customersapp.NewService(customerRepo)
	catalogService := catalogapp.NewService(productRepo)
	coreOrderService := ordersapp.NewService(
		orderslocal.NewCustomerDirectory(customerService),
		orderslocal.NewProductCatalog(catalogService),
		orderRepo,
		ordersapp.WithIdempotencyStore(idempotencyStore),
	)
	return ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.domains.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.domains.orders.application")),
	), cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
