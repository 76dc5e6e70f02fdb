package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kuku/internal/domain"
)

type SQLStatsRepository struct {
	db *sql.DB
}

func NewSQLStatsRepository(db *sql.DB) *SQLStatsRepository {
	return &SQLStatsRepository{db: db}
}

// Summary computes every figure in one round trip so the numbers come from
// the same snapshot.
func (r *SQLStatsRepository) Summary(ctx context.Context) (domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total), 0) FROM orders WHERE status IN (?, ?)),
			(SELECT COUNT(*) FROM orders WHERE status = ?),
			(SELECT COUNT(*) FROM products)`

	var stats domain.DashboardStats
	err := r.db.QueryRowContext(ctx, query,
		string(domain.RevenueStatuses[0]),
		string(domain.RevenueStatuses[1]),
		string(domain.OrderStatusPending),
	).Scan(&stats.TotalOrders, &stats.TotalRevenue, &stats.PendingOrders, &stats.TotalProducts)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("querying dashboard stats: %w", err)
	}

	return stats, nil
}
