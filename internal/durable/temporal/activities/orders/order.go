package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-order-api-server/internal/domains/orders/application"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName runs the order placement transaction.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"

	// OrderRejectedErrorType marks failures a retry can never fix: the
	// request itself was rejected, not the commit.
	OrderRejectedErrorType = "OrderRejected"
)

// Rejection reasons carried in the activity error details.
const (
	ReasonInvalidInput        = "invalid_input"
	ReasonCustomerNotFound    = "customer_not_found"
	ReasonProductNotFound     = "product_not_found"
	ReasonInsufficientStock   = "insufficient_stock"
	ReasonIdempotencyConflict = "idempotency_conflict"
)

// RejectionDetails travels with the non-retryable activity error so callers
// on the other side of the workflow boundary can rebuild the typed rejection.
type RejectionDetails struct {
	Reason     string
	Message    string
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	Requested  int
	Available  int
}

// ToError rebuilds the taxonomy error the details were derived from.
func (d RejectionDetails) ToError() error {
	switch d.Reason {
	case ReasonInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, d.Message)
	case ReasonCustomerNotFound:
		return fmt.Errorf("%w: %s", ports.ErrCustomerNotFound, d.CustomerID)
	case ReasonProductNotFound:
		if d.ProductID == uuid.Nil {
			return fmt.Errorf("%w: %s", ports.ErrProductNotFound, d.Message)
		}
		return fmt.Errorf("%w: %s", ports.ErrProductNotFound, d.ProductID)
	case ReasonIdempotencyConflict:
		return fmt.Errorf("%w: %s", ports.ErrIdempotencyConflict, d.Message)
	case ReasonInsufficientStock:
		return &domain.InsufficientStockError{
			ProductID: d.ProductID,
			Requested: d.Requested,
			Available: d.Available,
		}
	default:
		return nil
	}
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	orders ports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(orders ports.Service) *Activities {
	return &Activities{orders: orders}
}

// PlaceOrder executes the validate-allocate-commit flow once. Rejections
// surface as non-retryable application errors carrying RejectionDetails; a
// failed commit stays retryable because catalog state may have moved and a
// fresh attempt restarts from validation.
func (a *Activities) PlaceOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil {
		logger.Error("order placement activity not initialized")
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "customerId", req.CustomerID)
	order, err := a.orders.CreateOrder(ctx, req)
	if err != nil {
		if details, ok := rejectionDetails(req, err); ok {
			logger.Info("PlaceOrder activity rejected", "customerId", req.CustomerID, "reason", details.Reason, "error", err)
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), OrderRejectedErrorType, err, details)
		}
		logger.Error("PlaceOrder activity failed", "customerId", req.CustomerID, "error", err)
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}

func rejectionDetails(req domain.OrderRequest, err error) (RejectionDetails, bool) {
	var shortage *domain.InsufficientStockError
	switch {
	case errors.As(err, &shortage):
		return RejectionDetails{
			Reason:    ReasonInsufficientStock,
			Message:   err.Error(),
			ProductID: shortage.ProductID,
			Requested: shortage.Requested,
			Available: shortage.Available,
		}, true
	case errors.Is(err, domain.ErrInsufficientStock):
		return RejectionDetails{Reason: ReasonInsufficientStock, Message: err.Error()}, true
	case errors.Is(err, ports.ErrCustomerNotFound):
		return RejectionDetails{Reason: ReasonCustomerNotFound, Message: err.Error(), CustomerID: req.CustomerID}, true
	case errors.Is(err, ports.ErrProductNotFound):
		return RejectionDetails{Reason: ReasonProductNotFound, Message: err.Error()}, true
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return RejectionDetails{Reason: ReasonIdempotencyConflict, Message: err.Error()}, true
	case errors.Is(err, application.ErrInvalidInput):
		return RejectionDetails{Reason: ReasonInvalidInput, Message: err.Error()}, true
	default:
		return RejectionDetails{}, false
	}
}
