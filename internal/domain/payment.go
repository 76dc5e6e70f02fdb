package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID              string
	OrderID         string
	Amount          float64
	Currency        string
	TransactionID   string
	Status          PaymentStatus
	GatewayResponse *string
	VerifiedAt      *time.Time
	CreatedAt       time.Time
}
