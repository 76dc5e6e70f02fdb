package product

import (
	"database/sql"

	"go.uber.org/zap"

	"kuku/internal/product/controller"
	"kuku/internal/product/repository"
	"kuku/internal/product/service"
)

// Module exposes the catalog controller and the service other modules use
// for catalog lookups.
type Module struct {
	Controller *controller.Controller
	Service    *service.ProductService
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewSQLRepository(db)
	svc := service.NewService(repo, logger)
	return &Module{
		Controller: controller.NewController(svc, logger),
		Service:    svc,
	}
}
