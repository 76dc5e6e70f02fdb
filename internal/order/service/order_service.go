package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kuku/internal/domain"
	"kuku/internal/dto"
	apperrors "kuku/internal/errors"
)

const (
	maxOrderItems   = 100
	amountTolerance = 0.01
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ProductCatalog interface {
	GetByIDs(ctx context.Context, ids []string) (found []domain.Product, notFoundIDs []string, err error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByIDTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	Insert(ctx context.Context, tx *sql.Tx, o domain.Order) error
	UpdateStatus(ctx context.Context, tx *sql.Tx, o domain.Order, from domain.OrderStatus) (bool, error)
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error)
	FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	FindByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error)
}

type OrderService struct {
	db               TransactionManager
	catalog          ProductCatalog
	orderRepo        OrderRepository
	orderItemRepo    OrderItemRepository
	logger           *zap.Logger
	txTimeout        time.Duration
	deliveryEstimate time.Duration
	now              func() time.Time
}

func NewOrderService(
	db TransactionManager,
	catalog ProductCatalog,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
	deliveryEstimate time.Duration,
) *OrderService {
	return &OrderService{
		db:               db,
		catalog:          catalog,
		orderRepo:        orderRepo,
		orderItemRepo:    orderItemRepo,
		logger:           logger,
		txTimeout:        txTimeout,
		deliveryEstimate: deliveryEstimate,
		now:              func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// NewOrderID renders ORD-YYYYMMDD-HHMMSS-XXXXXX from now and a random suffix.
func NewOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102-150405"), suffix)
}

// Create validates the checkout against the catalog and persists the order
// with its items in a single transaction.
func (s *OrderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	if err := validateCreateOrderRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	order := domain.Order{
		ID:            NewOrderID(now),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Email:         strings.TrimSpace(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
		Location:      strings.TrimSpace(req.Location),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		DeliveryNotes: req.DeliveryNotes,
		DeliveryFee:   req.DeliveryFee,
		Total:         *req.Total,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items, err := s.snapshotItems(ctx, order.ID, req.Items)
	if err != nil {
		return nil, err
	}
	order.Items = items

	if err := checkTotals(&order, req.Subtotal); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	if err := s.orderRepo.Insert(txCtx, tx, order); err != nil {
		s.logger.Error("failed to insert order", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	for i := range order.Items {
		id, err := s.orderItemRepo.Insert(txCtx, tx, order.Items[i])
		if err != nil {
			s.logger.Error("failed to insert order item", zap.String("orderId", order.ID), zap.String("productId", order.Items[i].ProductID), zap.Error(err))
			return nil, err
		}
		order.Items[i].ID = id
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("orderId", order.ID),
		zap.Int("itemCount", len(order.Items)),
		zap.Float64("total", order.Total),
	)

	return &order, nil
}

func (s *OrderService) snapshotItems(ctx context.Context, orderID string, reqItems []dto.OrderItemRequest) ([]domain.OrderItem, error) {
	ids := make([]string, len(reqItems))
	for i, item := range reqItems {
		ids[i] = item.ProductID
	}

	found, _, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var details []apperrors.ValidationDetail
	items := make([]domain.OrderItem, 0, len(reqItems))
	for i, reqItem := range reqItems {
		field := "items[" + strconv.Itoa(i) + "].productId"

		p, ok := byID[reqItem.ProductID]
		if !ok {
			details = append(details, apperrors.ValidationDetail{Field: field, Message: fmt.Sprintf("product %s does not exist", reqItem.ProductID)})
			continue
		}
		if !p.IsAvailable {
			details = append(details, apperrors.ValidationDetail{Field: field, Message: fmt.Sprintf("product %s is not available", p.ID)})
			continue
		}
		if !p.InStock(reqItem.Quantity) {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(i) + "].quantity",
				Message: fmt.Sprintf("only %d of product %s in stock", p.Quantity, p.ID),
			})
			continue
		}

		items = append(items, domain.OrderItem{
			OrderID:   orderID,
			ProductID: p.ID,
			Title:     p.Title,
			Quantity:  reqItem.Quantity,
			UnitPrice: p.Price,
		})
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	return items, nil
}

// checkTotals fills o.Subtotal from the item snapshots and rejects amounts the
// client computed differently.
func checkTotals(o *domain.Order, claimedSubtotal *float64) error {
	var subtotal float64
	for _, item := range o.Items {
		subtotal += item.LineTotal()
	}
	subtotal = math.Round(subtotal*100) / 100
	o.Subtotal = subtotal

	var details []apperrors.ValidationDetail
	if claimedSubtotal != nil && math.Abs(*claimedSubtotal-subtotal) > amountTolerance {
		details = append(details, apperrors.ValidationDetail{
			Field:   "subtotal",
			Message: fmt.Sprintf("subtotal %.2f does not match items total %.2f", *claimedSubtotal, subtotal),
		})
	}

	expected := subtotal + o.DeliveryFee
	if math.Abs(o.Total-expected) > amountTolerance {
		details = append(details, apperrors.ValidationDetail{
			Field:   "total",
			Message: fmt.Sprintf("total %.2f does not equal subtotal plus delivery fee %.2f", o.Total, expected),
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := s.orderItemRepo.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Items, err = s.orderItemRepo.FindByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateStatus moves the order along the status graph. Re-applying the
// current status changes nothing.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	next, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("invalid status %q", status),
			apperrors.ValidationDetail{Field: "status", Message: "status must be one of pending, confirmed, delivered, cancelled"},
		)
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindByIDTx(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == next {
		return s.withItems(ctx, order)
	}

	if !order.Status.CanTransitionTo(next) {
		detail := fmt.Sprintf("transition %s -> %s is not allowed", order.Status, next)
		if order.Status.IsTerminal() {
			detail = fmt.Sprintf("%s is a final status", order.Status)
		}
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("cannot change order status from %s to %s", order.Status, next),
			apperrors.ValidationDetail{Field: "status", Message: detail},
		)
	}

	from := order.Status
	order.ApplyStatus(next, s.now(), s.deliveryEstimate)

	updated, err := s.orderRepo.UpdateStatus(txCtx, tx, *order, from)
	if err != nil {
		s.logger.Error("failed to update order status", zap.String("orderId", id), zap.Error(err))
		return nil, err
	}
	if !updated {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order %s was modified concurrently", id))
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("orderId", id),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)

	return s.withItems(ctx, order)
}

func (s *OrderService) withItems(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	items, err := s.orderItemRepo.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func validateCreateOrderRequest(req dto.CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	required := []struct {
		field string
		value string
	}{
		{"customerName", req.CustomerName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"location", req.Location},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			details = append(details, apperrors.ValidationDetail{Field: r.field, Message: r.field + " is required"})
		}
	}

	if email := strings.TrimSpace(req.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email is not a valid address"})
		}
	}

	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		details = append(details, apperrors.ValidationDetail{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}

	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		details = append(details, apperrors.ValidationDetail{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "items", Message: "items must not be empty"})
	}

	if len(req.Items) > maxOrderItems {
		details = append(details, apperrors.ValidationDetail{Field: "items", Message: "items exceeds maximum of " + strconv.Itoa(maxOrderItems)})
	}

	seen := make(map[string]bool, len(req.Items))
	for idx, item := range req.Items {
		prefix := "items[" + strconv.Itoa(idx) + "]"

		if strings.TrimSpace(item.ProductID) == "" {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".productId", Message: "productId is required"})
		} else if seen[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".productId", Message: "productId must not be duplicated"})
		}
		seen[item.ProductID] = true

		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".quantity", Message: "quantity must be at least 1"})
		}
	}

	if req.Subtotal != nil && *req.Subtotal < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "subtotal", Message: "subtotal must not be negative"})
	}

	if req.DeliveryFee < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "deliveryFee", Message: "deliveryFee must not be negative"})
	}

	if req.Total == nil {
		details = append(details, apperrors.ValidationDetail{Field: "total", Message: "total is required"})
	} else if *req.Total <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "total", Message: "total must be greater than zero"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}
