package dashboard

import (
	"database/sql"

	"go.uber.org/zap"

	"kuku/internal/dashboard/controller"
	"kuku/internal/dashboard/repository"
	"kuku/internal/dashboard/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.DashboardController {
	repo := repository.NewSQLStatsRepository(db)
	svc := service.NewDashboardService(repo, logger)
	return controller.NewDashboardController(svc, logger)
}
