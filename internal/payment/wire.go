package payment

import (
	"database/sql"

	"go.uber.org/zap"

	"kuku/internal/config"
	orderrepo "kuku/internal/order/repository"
	"kuku/internal/payment/controller"
	"kuku/internal/payment/gateway"
	paymentrepo "kuku/internal/payment/repository"
	"kuku/internal/payment/service"
)

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	verifier gateway.Verifier,
	locker service.OrderLocker,
	events service.EventStore,
	logger *zap.Logger,
) *controller.PaymentController {
	paymentSvc := service.NewPaymentService(
		db,
		orderrepo.NewSQLOrderRepository(db),
		paymentrepo.NewSQLPaymentRepository(db),
		verifier,
		locker,
		events,
		service.Options{
			TxTimeout:        cfg.Order.TxTimeout,
			DeliveryEstimate: cfg.Order.DeliveryEstimate,
			Currency:         cfg.Payment.Currency,
			CheckoutBaseURL:  cfg.Payment.CheckoutBaseURL,
			WebhookSecret:    cfg.Payment.WebhookSecret,
		},
		logger,
	)

	return controller.NewPaymentController(paymentSvc, logger)
}
