// Package http exposes the customers context over gin.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/customers/application"
	"github.com/Apurer/go-order-api-server/internal/domains/customers/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/customers/ports"
	apierrors "github.com/Apurer/go-order-api-server/internal/shared/errors"
)

// Handler serves customer registration and lookup endpoints.
type Handler struct {
	customers ports.Service
	responder *apierrors.ChainedResponder
}

func NewHandler(customers ports.Service) *Handler {
	return &Handler{
		customers: customers,
		responder: apierrors.NewChainedResponder("", mapCustomerError),
	}
}

// Register mounts the customer routes on the router group.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/customers", h.createCustomer)
	r.GET("/customers/:id", h.getCustomer)
}

type createCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type customerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) createCustomer(c *gin.Context) {
	var payload createCustomerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	customer, err := h.customers.CreateCustomer(c.Request.Context(), payload.Name, payload.Email)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainCustomer(customer))
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.responder.BadRequest(c, "customer id must be a valid uuid")
		return
	}
	customer, err := h.customers.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			h.responder.NotFound(c, "customer", id)
			return
		}
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainCustomer(customer))
}

func fromDomainCustomer(customer *domain.Customer) customerResponse {
	if customer == nil {
		return customerResponse{}
	}
	return customerResponse{ID: customer.ID.String(), Name: customer.Name, Email: customer.Email}
}

func mapCustomerError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrEmailTaken):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
