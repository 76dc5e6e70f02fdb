package order

import (
	"database/sql"

	"go.uber.org/zap"

	"kuku/internal/config"
	"kuku/internal/order/controller"
	orderrepo "kuku/internal/order/repository"
	"kuku/internal/order/service"
)

func NewModule(db *sql.DB, cfg *config.Config, catalog service.ProductCatalog, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewSQLOrderRepository(db)
	orderItemRepo := orderrepo.NewSQLOrderItemRepository(db)

	orderSvc := service.NewOrderService(
		db,
		catalog,
		orderRepo,
		orderItemRepo,
		logger,
		cfg.Order.TxTimeout,
		cfg.Order.DeliveryEstimate,
	)

	return controller.NewOrderController(orderSvc, logger)
}
