package domain

type DashboardStats struct {
	TotalOrders   int
	TotalRevenue  float64
	PendingOrders int
	TotalProducts int
}
