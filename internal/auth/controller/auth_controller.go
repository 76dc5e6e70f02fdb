package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"kuku/internal/commons"
	"kuku/internal/dto"
)

type Service interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type AuthController struct {
	service Service
	logger  *zap.Logger
}

func NewAuthController(service Service, logger *zap.Logger) *AuthController {
	return &AuthController{
		service: service,
		logger:  logger,
	}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	resp, err := c.service.Login(r.Context(), req)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, resp, c.logger)
}
