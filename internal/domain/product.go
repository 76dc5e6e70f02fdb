package domain

import "time"

// Known catalog categories. The category column is free-form; these are the
// values the storefront filters on.
const (
	CategoryBroiler  = "broiler"
	CategoryKienyeji = "kienyeji"
	CategoryEggs     = "eggs"
	CategoryOther    = "other"
)

type Product struct {
	ID          string
	Title       string
	Description string
	Category    string
	Price       float64
	Quantity    int
	IsAvailable bool
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InStock reports whether quantity on hand covers qty. Availability is a
// separate flag and is not implied by stock.
func (p Product) InStock(qty int) bool {
	return p.Quantity >= qty
}
