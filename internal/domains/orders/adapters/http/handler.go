// Package http exposes the orders context over gin.
package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/orders/application"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-order-api-server/internal/shared/errors"
)

// Handler serves order placement and lookup endpoints.
type Handler struct {
	orchestrator ports.WorkflowOrchestrator
	orders       ports.Service
	responder    *apierrors.ChainedResponder
}

// NewHandler wires the orders HTTP adapter. The orchestrator runs placement
// (durable when Temporal is available, inline otherwise); lookups go straight
// to the service.
func NewHandler(orchestrator ports.WorkflowOrchestrator, orders ports.Service) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		orders:       orders,
		responder:    apierrors.NewChainedResponder("", mapOrderError),
	}
}

// Register mounts the order routes on the router group.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/orders", h.createOrder)
	r.GET("/orders/:id", h.getOrder)
}

func (h *Handler) createOrder(c *gin.Context) {
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	req, err := payload.toDomain()
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	order, err := h.orchestrator.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainOrder(order))
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.responder.BadRequest(c, "order id must be a valid uuid")
		return
	}
	order, err := h.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			h.responder.NotFound(c, "order", id)
			return
		}
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrder(order))
}

// mapOrderError translates the placement taxonomy into Problem Details.
func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	var shortage *domain.InsufficientStockError
	switch {
	case errors.As(err, &shortage):
		return apierrors.NewInsufficientStockProblem(
			shortage.ProductID.String(), shortage.Requested, shortage.Available), true
	case errors.Is(err, domain.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrCustomerNotFound),
		errors.Is(err, ports.ErrProductNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrCommitFailed):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
