package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
)

type createOrderRequest struct {
	CustomerID string             `json:"customer_id" binding:"required"`
	Products   []orderLinePayload `json:"products" binding:"required"`
}

type orderLinePayload struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func (p createOrderRequest) toDomain() (domain.OrderRequest, error) {
	customerID, err := uuid.Parse(p.CustomerID)
	if err != nil {
		return domain.OrderRequest{}, err
	}
	lines := make([]domain.LineInput, 0, len(p.Products))
	for _, line := range p.Products {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return domain.OrderRequest{}, err
		}
		lines = append(lines, domain.LineInput{ProductID: productID, Quantity: line.Quantity})
	}
	return domain.OrderRequest{CustomerID: customerID, Lines: lines}, nil
}

type orderResponse struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id"`
	Items      []lineItemResponse `json:"items"`
	Total      float64            `json:"total"`
	CreatedAt  time.Time          `json:"created_at"`
}

type lineItemResponse struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

func fromDomainOrder(order *domain.Order) orderResponse {
	if order == nil {
		return orderResponse{}
	}
	items := make([]lineItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, lineItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return orderResponse{
		ID:         order.ID.String(),
		CustomerID: order.CustomerID.String(),
		Items:      items,
		Total:      order.Total(),
		CreatedAt:  order.CreatedAt,
	}
}
