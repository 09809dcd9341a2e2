// Package http exposes the catalog context over gin.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/catalog/application"
	"github.com/Apurer/go-order-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-order-api-server/internal/shared/errors"
)

// Handler serves product registration and lookup endpoints.
type Handler struct {
	catalog   ports.Service
	responder *apierrors.ChainedResponder
}

func NewHandler(catalog ports.Service) *Handler {
	return &Handler{
		catalog:   catalog,
		responder: apierrors.NewChainedResponder("", mapProductError),
	}
}

// Register mounts the product routes on the router group.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/products", h.createProduct)
	r.GET("/products/:id", h.getProduct)
	r.GET("/products", h.listProducts)
}

type createProductRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type productResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (h *Handler) createProduct(c *gin.Context) {
	var payload createProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), payload.Name, payload.Price, payload.Quantity)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainProduct(product))
}

func (h *Handler) getProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.responder.BadRequest(c, "product id must be a valid uuid")
		return
	}
	product, err := h.catalog.GetProductByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			h.responder.NotFound(c, "product", id)
			return
		}
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainProduct(product))
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	payload := make([]productResponse, 0, len(products))
	for _, product := range products {
		payload = append(payload, fromDomainProduct(product))
	}
	c.JSON(http.StatusOK, payload)
}

func fromDomainProduct(product *domain.Product) productResponse {
	if product == nil {
		return productResponse{}
	}
	return productResponse{
		ID:       product.ID.String(),
		Name:     product.Name,
		Price:    product.Price,
		Quantity: product.Quantity,
	}
}

func mapProductError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, application.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
