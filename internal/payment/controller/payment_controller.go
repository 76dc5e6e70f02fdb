package controller

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"kuku/internal/commons"
	"kuku/internal/dto"
	apperrors "kuku/internal/errors"
	"kuku/internal/payment/gateway"
)

const maxWebhookBody = 1 << 20

type Service interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error)
	VerifyPayment(ctx context.Context, orderID string) (*dto.VerifyPaymentResult, error)
	HandleWebhook(ctx context.Context, gatewayName string, signature string, body []byte) (*dto.WebhookAck, error)
}

type PaymentController struct {
	service Service
	logger  *zap.Logger
}

func NewPaymentController(service Service, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		service: service,
		logger:  logger,
	}
}

func (c *PaymentController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	resp, err := c.service.CreatePayment(r.Context(), req)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusCreated, resp, c.logger)
}

func (c *PaymentController) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.VerifyPayment(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, dto.NewVerifyPaymentResponse(*result), c.logger)
}

// Webhook hands the raw body to the service; the signature covers the exact
// bytes received.
func (c *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		commons.WriteError(w, r, apperrors.NewValidationError("unreadable webhook body"), c.logger)
		return
	}

	ack, err := c.service.HandleWebhook(r.Context(), chi.URLParam(r, "gateway"), r.Header.Get(gateway.SignatureHeader), body)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteSuccess(w, r, http.StatusOK, ack, c.logger)
}
