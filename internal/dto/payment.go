package dto

import (
	"time"

	"kuku/internal/domain"
)

type CreatePaymentRequest struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type CreatePaymentResponse struct {
	PaymentID     string `json:"paymentId"`
	TransactionID string `json:"transactionId"`
	CheckoutURL   string `json:"checkoutUrl"`
}

type PaymentResponse struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"orderId"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	TransactionID string     `json:"transactionId"`
	Status        string     `json:"status"`
	VerifiedAt    *time.Time `json:"verifiedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func NewPaymentResponse(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		VerifiedAt:    p.VerifiedAt,
		CreatedAt:     p.CreatedAt,
	}
}

// VerifyPaymentResult is what the workflow reports back after a verify call.
// Order and Payment reflect the stored state after the call.
type VerifyPaymentResult struct {
	Verified bool
	Order    domain.Order
	Payment  domain.Payment
}

type VerifyPaymentResponse struct {
	Verified          bool            `json:"verified"`
	OrderID           string          `json:"orderId"`
	OrderStatus       string          `json:"orderStatus"`
	PaymentVerified   bool            `json:"paymentVerified"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery"`
	Payment           PaymentResponse `json:"payment"`
}

func NewVerifyPaymentResponse(r VerifyPaymentResult) VerifyPaymentResponse {
	return VerifyPaymentResponse{
		Verified:          r.Verified,
		OrderID:           r.Order.ID,
		OrderStatus:       string(r.Order.Status),
		PaymentVerified:   r.Order.PaymentVerified,
		EstimatedDelivery: r.Order.EstimatedDelivery,
		Payment:           NewPaymentResponse(r.Payment),
	}
}

// WebhookEvent is the inbound gateway notification.
type WebhookEvent struct {
	ID   string           `json:"id"`
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	OrderID       string  `json:"orderId"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
}

type WebhookAck struct {
	Received  bool   `json:"received"`
	EventID   string `json:"eventId"`
	Applied   bool   `json:"applied"`
	Duplicate bool   `json:"duplicate,omitempty"`
}
