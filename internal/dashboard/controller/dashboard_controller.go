package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"kuku/internal/commons"
	"kuku/internal/domain"
	"kuku/internal/dto"
)

type Service interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type DashboardController struct {
	service Service
	logger  *zap.Logger
}

func NewDashboardController(service Service, logger *zap.Logger) *DashboardController {
	return &DashboardController{
		service: service,
		logger:  logger,
	}
}

func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.Stats(r.Context())
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, dto.NewDashboardStatsResponse(*stats), c.logger)
}
