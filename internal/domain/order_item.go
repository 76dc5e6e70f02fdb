package domain

// OrderItem is a line of an order. Title and UnitPrice are snapshots of the
// catalog at checkout time and do not follow later product edits.
type OrderItem struct {
	ID        uint
	OrderID   string
	ProductID string
	Title     string
	Quantity  int
	UnitPrice float64
}

func (i OrderItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
