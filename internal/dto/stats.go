package dto

import "kuku/internal/domain"

type DashboardStatsResponse struct {
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingOrders int     `json:"pendingOrders"`
	TotalProducts int     `json:"totalProducts"`
}

func NewDashboardStatsResponse(s domain.DashboardStats) DashboardStatsResponse {
	return DashboardStatsResponse{
		TotalOrders:   s.TotalOrders,
		TotalRevenue:  s.TotalRevenue,
		PendingOrders: s.PendingOrders,
		TotalProducts: s.TotalProducts,
	}
}
