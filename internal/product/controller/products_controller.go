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
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, req dto.ProductRequest) (*domain.Product, error)
	Update(ctx context.Context, id string, req dto.ProductRequest) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.List(r.Context())
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, dto.NewProductListResponse(products), c.logger)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	p, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, dto.NewProductResponse(*p), c.logger)
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	p, err := c.service.Create(r.Context(), req)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusCreated, dto.NewProductResponse(*p), c.logger)
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	p, err := c.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, dto.NewProductResponse(*p), c.logger)
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.service.Delete(r.Context(), id); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, map[string]string{"id": id}, c.logger)
}
