package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kuku/internal/domain"
	"kuku/internal/errors"
)

const paymentColumns = `id, order_id, amount, currency, transaction_id, status, gateway_response, verified_at, created_at`

type SQLPaymentRepository struct {
	db *sql.DB
}

func NewSQLPaymentRepository(db *sql.DB) *SQLPaymentRepository {
	return &SQLPaymentRepository{db: db}
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func scanPayment(row *sql.Row) (*domain.Payment, error) {
	var p domain.Payment
	var status string
	err := row.Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.Currency, &p.TransactionID,
		&status, &p.GatewayResponse, &p.VerifiedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}

func findLatestByOrderID(ctx context.Context, q queryRower, orderID string) (*domain.Payment, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE order_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		orderID,
	)

	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no payment found for order %s", orderID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying payment by order id: %w", err)
	}

	return p, nil
}

// FindLatestByOrderID returns the most recent payment attempt of the order.
func (r *SQLPaymentRepository) FindLatestByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	return findLatestByOrderID(ctx, r.db, orderID)
}

func (r *SQLPaymentRepository) FindLatestByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID string) (*domain.Payment, error) {
	return findLatestByOrderID(ctx, tx, orderID)
}

func findByTransactionID(ctx context.Context, q queryRower, transactionID string) (*domain.Payment, error) {
	row := q.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id = ?`, transactionID)

	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("payment with transaction %s not found", transactionID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying payment by transaction id: %w", err)
	}

	return p, nil
}

func (r *SQLPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	return findByTransactionID(ctx, r.db, transactionID)
}

func (r *SQLPaymentRepository) FindByTransactionIDTx(ctx context.Context, tx *sql.Tx, transactionID string) (*domain.Payment, error) {
	return findByTransactionID(ctx, tx, transactionID)
}

func (r *SQLPaymentRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		p.ID, p.OrderID, p.Amount, p.Currency, p.TransactionID,
		string(p.Status), p.GatewayResponse, p.VerifiedAt, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}

	return nil
}

// MarkCompleted settles a pending payment. It reports false when the payment
// was no longer pending, so a payment is completed at most once.
func (r *SQLPaymentRepository) MarkCompleted(ctx context.Context, tx *sql.Tx, id string, verifiedAt time.Time, gatewayResponse *string) (bool, error) {
	query := `
		UPDATE payments
		SET status = ?, verified_at = ?, gateway_response = ?
		WHERE id = ? AND status = ?`

	result, err := tx.ExecContext(ctx, query,
		string(domain.PaymentStatusCompleted), verifiedAt, gatewayResponse, id, string(domain.PaymentStatusPending),
	)
	if err != nil {
		return false, fmt.Errorf("completing payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
