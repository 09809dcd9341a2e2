package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	catalogmemory "github.com/Apurer/go-order-api-server/internal/domains/catalog/adapters/memory"
	cataloghttp "github.com/Apurer/go-order-api-server/internal/domains/catalog/adapters/http"
	catalogpostgres "github.com/Apurer/go-order-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-order-api-server/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-order-api-server/internal/domains/catalog/ports"
	customershttp "github.com/Apurer/go-order-api-server/internal/domains/customers/adapters/http"
	customersmemory "github.com/Apurer/go-order-api-server/internal/domains/customers/adapters/memory"
	customerspostgres "github.com/Apurer/go-order-api-server/internal/domains/customers/adapters/persistence/postgres"
	customersapp "github.com/Apurer/go-order-api-server/internal/domains/customers/application"
	customersports "github.com/Apurer/go-order-api-server/internal/domains/customers/ports"
	ordershttp "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/http"
	orderslocal "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/local"
	ordersmemory "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/go-order-api-server/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-order-api-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
	"github.com/Apurer/go-order-api-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-order-api-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-api-server/internal/platform/postgres"
)

// Run boots the orders HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "orders-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()

	var (
		customerRepo     customersports.Repository
		productRepo      catalogports.Repository
		orderRepo        ordersports.Repository
		idempotencyStore ordersports.IdempotencyStore
	)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		customerRepo = customerspostgres.NewRepository(db)
		productRepo = catalogpostgres.NewRepository(db)
		orderRepo = orderspostgres.NewRepository(db)
		idempotencyStore = orderspostgres.NewIdempotencyStore(db)
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
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.domains.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.domains.orders.application")),
	)

	var orchestrator ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := NewRouter(
		customershttp.NewHandler(customerService),
		cataloghttp.NewHandler(catalogService),
		ordershttp.NewHandler(orchestrator, orderService),
	)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("Orders API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("Orders API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
