package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	authctrl "kuku/internal/auth/controller"
	"kuku/internal/commons"
	dashboardctrl "kuku/internal/dashboard/controller"
	"kuku/internal/dto"
	apperrors "kuku/internal/errors"
	orderctrl "kuku/internal/order/controller"
	paymentctrl "kuku/internal/payment/controller"
	productctrl "kuku/internal/product/controller"
)

type Handlers struct {
	Product      *productctrl.Controller
	Order        *orderctrl.OrderController
	Payment      *paymentctrl.PaymentController
	Dashboard    *dashboardctrl.DashboardController
	Auth         *authctrl.AuthController
	RequireAdmin func(http.Handler) http.Handler
}

func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(traceRequests)
	r.Use(logRequests(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		commons.WriteSuccess(w, r, http.StatusOK, dto.HealthResponse{Status: "ok"}, logger)
	})

	r.Post("/auth/login", h.Auth.Login)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Product.List)
		r.Get("/{id}", h.Product.Get)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Post("/", h.Product.Create)
			r.Put("/{id}", h.Product.Update)
			r.Delete("/{id}", h.Product.Delete)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.Order.Create)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Get("/", h.Order.List)
			r.Get("/{id}", h.Order.Get)
			r.Patch("/{id}/status", h.Order.UpdateStatus)
		})
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/create", h.Payment.Create)
		r.Post("/verify/{orderId}", h.Payment.Verify)
	})

	r.Post("/webhooks/{gateway}", h.Payment.Webhook)

	r.With(h.RequireAdmin).Get("/dashboard/stats", h.Dashboard.Stats)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		commons.WriteError(w, r, apperrors.NewNotFoundError("route not found"), logger)
	})

	return r
}
