package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kuku/internal/domain"
	"kuku/internal/dto"
	apperrors "kuku/internal/errors"
	"kuku/internal/payment/gateway"
)

const eventPaymentCompleted = "payment.completed"

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByIDTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error)
	SetTransactionID(ctx context.Context, tx *sql.Tx, id string, transactionID string, now time.Time) error
	MarkPaymentVerified(ctx context.Context, tx *sql.Tx, o domain.Order, from domain.OrderStatus) (bool, error)
}

type PaymentRepository interface {
	FindLatestByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	FindLatestByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID string) (*domain.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	FindByTransactionIDTx(ctx context.Context, tx *sql.Tx, transactionID string) (*domain.Payment, error)
	Insert(ctx context.Context, tx *sql.Tx, p domain.Payment) error
	MarkCompleted(ctx context.Context, tx *sql.Tx, id string, verifiedAt time.Time, gatewayResponse *string) (bool, error)
}

// OrderLocker serialises verification of a single order.
type OrderLocker interface {
	Lock(ctx context.Context, orderID string) (unlock func(), err error)
}

// EventStore remembers webhook deliveries already applied.
type EventStore interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	MarkSeen(ctx context.Context, eventID string) error
}

// NoopEventStore is used when no shared store is configured. The conditional
// updates still make redelivery harmless.
type NoopEventStore struct{}

func (NoopEventStore) Seen(context.Context, string) (bool, error) { return false, nil }
func (NoopEventStore) MarkSeen(context.Context, string) error     { return nil }

type Options struct {
	TxTimeout        time.Duration
	DeliveryEstimate time.Duration
	Currency         string
	CheckoutBaseURL  string
	WebhookSecret    string
}

type PaymentService struct {
	db       TransactionManager
	orders   OrderRepository
	payments PaymentRepository
	verifier gateway.Verifier
	locker   OrderLocker
	events   EventStore
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

func NewPaymentService(
	db TransactionManager,
	orders OrderRepository,
	payments PaymentRepository,
	verifier gateway.Verifier,
	locker OrderLocker,
	events EventStore,
	opts Options,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		db:       db,
		orders:   orders,
		payments: payments,
		verifier: verifier,
		locker:   locker,
		events:   events,
		opts:     opts,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// NewTransactionID renders TXN-<unix nanos>-<random>.
func NewTransactionID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TXN-%d-%s", now.UnixNano(), suffix)
}

// CreatePayment opens a pending payment for the order and stamps the order
// with its transaction id in the same transaction.
func (s *PaymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.opts.Currency
	}

	if err := validateCreatePayment(req, currency); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if err := checkPayable(order); err != nil {
		return nil, err
	}

	if req.Amount != order.Total {
		s.logger.Warn("payment amount differs from order total",
			zap.String("orderId", order.ID),
			zap.Float64("amount", req.Amount),
			zap.Float64("total", order.Total),
		)
	}

	now := s.now()
	payment := domain.Payment{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		Amount:        req.Amount,
		Currency:      currency,
		TransactionID: NewTransactionID(now),
		Status:        domain.PaymentStatusPending,
		CreatedAt:     now,
	}

	txCtx, cancel := context.WithTimeout(ctx, s.opts.TxTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	current, err := s.orders.FindByIDTx(txCtx, tx, order.ID)
	if err != nil {
		return nil, err
	}
	if err := checkPayable(current); err != nil {
		return nil, err
	}

	if err := s.payments.Insert(txCtx, tx, payment); err != nil {
		s.logger.Error("failed to insert payment", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	if err := s.orders.SetTransactionID(txCtx, tx, order.ID, payment.TransactionID, now); err != nil {
		s.logger.Error("failed to stamp order transaction", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("payment created",
		zap.String("orderId", order.ID),
		zap.String("paymentId", payment.ID),
		zap.String("transactionId", payment.TransactionID),
	)

	return &dto.CreatePaymentResponse{
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		CheckoutURL:   strings.TrimRight(s.opts.CheckoutBaseURL, "/") + "/" + payment.TransactionID,
	}, nil
}

// VerifyPayment asks the gateway about the order's latest payment and, when
// approved, settles payment and order together. Verifying a paid order again
// reports success without touching either record.
func (s *PaymentService) VerifyPayment(ctx context.Context, orderID string) (*dto.VerifyPaymentResult, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, apperrors.NewValidationError("orderId is required", apperrors.ValidationDetail{Field: "orderId", Message: "orderId is required"})
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	payment, err := s.currentPayment(ctx, order)
	if err != nil {
		return nil, err
	}

	if order.PaymentVerified {
		return &dto.VerifyPaymentResult{Verified: true, Order: *order, Payment: *payment}, nil
	}

	if err := checkSettleable(order); err != nil {
		return nil, err
	}

	verdict, err := s.verifier.Verify(ctx, *order, *payment)
	if err != nil {
		s.logger.Error("payment verifier failed", zap.String("orderId", orderID), zap.Error(err))
		return nil, err
	}

	if !verdict.Approved {
		s.logger.Info("payment not approved",
			zap.String("orderId", orderID),
			zap.String("transactionId", payment.TransactionID),
		)
		return &dto.VerifyPaymentResult{Verified: false, Order: *order, Payment: *payment}, nil
	}

	result, _, err := s.settle(ctx, orderID, payment.TransactionID, &verdict.Response)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// HandleWebhook applies an authenticated gateway notification. Only completed
// payments that name an order change state; every other event is
// acknowledged untouched.
func (s *PaymentService) HandleWebhook(ctx context.Context, gatewayName string, signature string, body []byte) (*dto.WebhookAck, error) {
	if !gateway.VerifySignature(s.opts.WebhookSecret, body, signature) {
		s.logger.Warn("rejected webhook with invalid signature", zap.String("gateway", gatewayName))
		return nil, apperrors.NewAuthError("invalid webhook signature")
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, apperrors.NewValidationError("invalid webhook payload", apperrors.ValidationDetail{Field: "body", Message: "payload must be valid JSON"})
	}
	if event.ID == "" || event.Type == "" {
		return nil, apperrors.NewValidationError("invalid webhook payload", apperrors.ValidationDetail{Field: "id", Message: "event id and type are required"})
	}

	logger := s.logger.With(
		zap.String("gateway", gatewayName),
		zap.String("eventId", event.ID),
		zap.String("eventType", event.Type),
	)
	ack := &dto.WebhookAck{Received: true, EventID: event.ID}

	seen, err := s.events.Seen(ctx, event.ID)
	if err != nil {
		logger.Warn("webhook dedup lookup failed", zap.Error(err))
	}
	if seen {
		logger.Info("duplicate webhook delivery")
		ack.Duplicate = true
		return ack, nil
	}

	if event.Type == eventPaymentCompleted && event.Data.OrderID != "" {
		response := string(body)
		_, changed, err := s.settle(ctx, event.Data.OrderID, event.Data.TransactionID, &response)
		if err != nil {
			logger.Warn("webhook could not be applied", zap.String("orderId", event.Data.OrderID), zap.Error(err))
			return nil, err
		}
		ack.Applied = changed
	} else {
		logger.Info("webhook event ignored")
	}

	if err := s.events.MarkSeen(ctx, event.ID); err != nil {
		logger.Warn("failed to record webhook event", zap.Error(err))
	}

	return ack, nil
}

// settle completes the payment and confirms the order as one unit under the
// order lock. changed is false when the order was already verified.
func (s *PaymentService) settle(ctx context.Context, orderID string, transactionID string, gatewayResponse *string) (*dto.VerifyPaymentResult, bool, error) {
	unlock, err := s.locker.Lock(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	txCtx, cancel := context.WithTimeout(ctx, s.opts.TxTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, false, err
	}
	defer tx.Rollback()

	order, err := s.orders.FindByIDTx(txCtx, tx, orderID)
	if err != nil {
		return nil, false, err
	}

	payment, err := s.findPaymentTx(txCtx, tx, order, transactionID)
	if err != nil {
		return nil, false, err
	}

	if order.PaymentVerified {
		return &dto.VerifyPaymentResult{Verified: true, Order: *order, Payment: *payment}, false, nil
	}

	if err := checkSettleable(order); err != nil {
		return nil, false, err
	}

	if payment.Status != domain.PaymentStatusPending {
		return nil, false, apperrors.NewConflictError(fmt.Sprintf("payment %s is %s", payment.TransactionID, payment.Status))
	}

	now := s.now()
	completed, err := s.payments.MarkCompleted(txCtx, tx, payment.ID, now, gatewayResponse)
	if err != nil {
		s.logger.Error("failed to complete payment", zap.String("orderId", orderID), zap.Error(err))
		return nil, false, err
	}
	if !completed {
		return nil, false, apperrors.NewConflictError(fmt.Sprintf("payment %s is no longer pending", payment.TransactionID))
	}

	from := order.Status
	order.ApplyStatus(domain.OrderStatusConfirmed, now, s.opts.DeliveryEstimate)
	order.PaymentVerified = true

	verified, err := s.orders.MarkPaymentVerified(txCtx, tx, *order, from)
	if err != nil {
		s.logger.Error("failed to mark order verified", zap.String("orderId", orderID), zap.Error(err))
		return nil, false, err
	}
	if !verified {
		return nil, false, apperrors.NewConflictError(fmt.Sprintf("order %s changed concurrently", orderID))
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", orderID), zap.Error(err))
		return nil, false, apperrors.NewInternalError("committing payment verification", err)
	}

	payment.Status = domain.PaymentStatusCompleted
	payment.VerifiedAt = &now
	payment.GatewayResponse = gatewayResponse

	s.logger.Info("payment verified",
		zap.String("orderId", orderID),
		zap.String("paymentId", payment.ID),
		zap.String("transactionId", payment.TransactionID),
	)

	return &dto.VerifyPaymentResult{Verified: true, Order: *order, Payment: *payment}, true, nil
}

// currentPayment returns the payment the order was last stamped with, or the
// newest attempt for orders that carry no stamp.
func (s *PaymentService) currentPayment(ctx context.Context, order *domain.Order) (*domain.Payment, error) {
	if order.TransactionID == nil || *order.TransactionID == "" {
		return s.payments.FindLatestByOrderID(ctx, order.ID)
	}
	payment, err := s.payments.FindByTransactionID(ctx, *order.TransactionID)
	if err != nil {
		return nil, err
	}
	return payment, checkOwnership(payment, order.ID)
}

func (s *PaymentService) findPaymentTx(ctx context.Context, tx *sql.Tx, order *domain.Order, transactionID string) (*domain.Payment, error) {
	if transactionID == "" && order.TransactionID != nil {
		transactionID = *order.TransactionID
	}
	if transactionID == "" {
		return s.payments.FindLatestByOrderIDTx(ctx, tx, order.ID)
	}

	payment, err := s.payments.FindByTransactionIDTx(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}

	return payment, checkOwnership(payment, order.ID)
}

func checkOwnership(payment *domain.Payment, orderID string) error {
	if payment.OrderID != orderID {
		return apperrors.NewValidationError(
			fmt.Sprintf("transaction %s does not belong to order %s", payment.TransactionID, orderID),
			apperrors.ValidationDetail{Field: "transactionId", Message: "transaction does not belong to order"},
		)
	}
	return nil
}

// checkPayable rejects orders that must not open a new payment.
func checkPayable(order *domain.Order) error {
	if order.PaymentVerified {
		return apperrors.NewConflictError(fmt.Sprintf("order %s is already paid", order.ID))
	}
	if order.Status == domain.OrderStatusCancelled {
		return apperrors.NewConflictError(fmt.Sprintf("order %s is cancelled", order.ID))
	}
	return nil
}

// checkSettleable rejects orders that can no longer be confirmed.
func checkSettleable(order *domain.Order) error {
	if !order.Status.CanTransitionTo(domain.OrderStatusConfirmed) {
		return apperrors.NewConflictError(fmt.Sprintf("order %s is %s and cannot accept payment", order.ID, order.Status))
	}
	return nil
}

func validateCreatePayment(req dto.CreatePaymentRequest, currency string) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.OrderID) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "orderId", Message: "orderId is required"})
	}

	if req.Amount <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "amount", Message: "amount must be greater than zero"})
	}

	if !currencyPattern.MatchString(currency) {
		details = append(details, apperrors.ValidationDetail{Field: "currency", Message: "currency must be a three-letter ISO code"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}
