package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"kuku/internal/commons"
	"kuku/internal/domain"
	"kuku/internal/dto"
)

type Service interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error)
}

type OrderController struct {
	service Service
	logger  *zap.Logger
}

func NewOrderController(service Service, logger *zap.Logger) *OrderController {
	return &OrderController{
		service: service,
		logger:  logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	order, err := c.service.Create(r.Context(), req)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusCreated, dto.NewOrderResponse(*order), c.logger)
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.List(r.Context())
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, dto.NewOrderListResponse(orders), c.logger)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, dto.NewOrderResponse(*order), c.logger)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateOrderStatusRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	order, err := c.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, dto.NewOrderResponse(*order), c.logger)
}
