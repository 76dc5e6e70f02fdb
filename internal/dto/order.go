package dto

import (
	"time"

	"kuku/internal/domain"
)

type CreateOrderRequest struct {
	CustomerName  string             `json:"customerName"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	Location      string             `json:"location"`
	Latitude      *float64           `json:"latitude"`
	Longitude     *float64           `json:"longitude"`
	DeliveryNotes *string            `json:"deliveryNotes"`
	Items         []OrderItemRequest `json:"items"`
	Subtotal      *float64           `json:"subtotal"`
	DeliveryFee   float64            `json:"deliveryFee"`
	Total         *float64           `json:"total"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderItemResponse struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

type OrderResponse struct {
	ID                string              `json:"id"`
	CustomerName      string              `json:"customerName"`
	Email             string              `json:"email"`
	Phone             string              `json:"phone"`
	Location          string              `json:"location"`
	Latitude          *float64            `json:"latitude"`
	Longitude         *float64            `json:"longitude"`
	DeliveryNotes     *string             `json:"deliveryNotes"`
	Items             []OrderItemResponse `json:"items"`
	Subtotal          float64             `json:"subtotal"`
	DeliveryFee       float64             `json:"deliveryFee"`
	Total             float64             `json:"total"`
	Status            string              `json:"status"`
	PaymentVerified   bool                `json:"paymentVerified"`
	TransactionID     *string             `json:"transactionId"`
	EstimatedDelivery *time.Time          `json:"estimatedDelivery"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

func NewOrderResponse(o domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
		}
	}

	return OrderResponse{
		ID:                o.ID,
		CustomerName:      o.CustomerName,
		Email:             o.Email,
		Phone:             o.Phone,
		Location:          o.Location,
		Latitude:          o.Latitude,
		Longitude:         o.Longitude,
		DeliveryNotes:     o.DeliveryNotes,
		Items:             items,
		Subtotal:          o.Subtotal,
		DeliveryFee:       o.DeliveryFee,
		Total:             o.Total,
		Status:            string(o.Status),
		PaymentVerified:   o.PaymentVerified,
		TransactionID:     o.TransactionID,
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func NewOrderListResponse(orders []domain.Order) []OrderResponse {
	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = NewOrderResponse(o)
	}
	return resp
}
