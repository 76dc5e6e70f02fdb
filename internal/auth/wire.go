package auth

import (
	"net/http"

	"go.uber.org/zap"

	"kuku/internal/auth/controller"
	"kuku/internal/auth/middleware"
	"kuku/internal/auth/service"
	"kuku/internal/auth/token"
	"kuku/internal/config"
)

type Module struct {
	Controller   *controller.AuthController
	RequireAdmin func(http.Handler) http.Handler
}

func NewModule(cfg config.AuthConfig, logger *zap.Logger) *Module {
	tokens := token.NewManager(cfg.SigningKey, cfg.TokenTTL)
	svc := service.NewAuthService(tokens, service.Credentials{
		Username:     cfg.Username,
		PasswordHash: cfg.PasswordHash,
	}, logger)

	return &Module{
		Controller:   controller.NewAuthController(svc, logger),
		RequireAdmin: middleware.RequireAdmin(tokens, cfg.Disabled, logger),
	}
}
