package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := orderTransitions[status]
	return status, ok
}

// CanTransitionTo reports whether next may follow s. Staying in the same
// status is always allowed and treated as a no-op by callers.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	ID                string
	CustomerName      string
	Email             string
	Phone             string
	Location          string
	Latitude          *float64
	Longitude         *float64
	DeliveryNotes     *string
	Items             []OrderItem
	Subtotal          float64
	DeliveryFee       float64
	Total             float64
	Status            OrderStatus
	PaymentVerified   bool
	TransactionID     *string
	EstimatedDelivery *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ApplyStatus moves the order to next at time now. Entering confirmed stamps
// the estimated delivery; every other status leaves it as it was.
func (o *Order) ApplyStatus(next OrderStatus, now time.Time, deliveryEstimate time.Duration) {
	if next == OrderStatusConfirmed && o.Status != OrderStatusConfirmed {
		eta := now.Add(deliveryEstimate)
		o.EstimatedDelivery = &eta
	}
	o.Status = next
	o.UpdatedAt = now
}

// RevenueStatuses are the statuses whose totals count as revenue.
var RevenueStatuses = []OrderStatus{OrderStatusConfirmed, OrderStatusDelivered}
