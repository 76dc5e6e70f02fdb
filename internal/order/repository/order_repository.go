package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kuku/internal/domain"
	"kuku/internal/errors"
)

const orderColumns = `id, customer_name, email, phone, location, latitude, longitude, delivery_notes,
	subtotal, delivery_fee, total, status, payment_verified, transaction_id, estimated_delivery,
	created_at, updated_at`

type SQLOrderRepository struct {
	db *sql.DB
}

func NewSQLOrderRepository(db *sql.DB) *SQLOrderRepository {
	return &SQLOrderRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.Email, &o.Phone, &o.Location,
		&o.Latitude, &o.Longitude, &o.DeliveryNotes,
		&o.Subtotal, &o.DeliveryFee, &o.Total, &status, &o.PaymentVerified,
		&o.TransactionID, &o.EstimatedDelivery, &o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = domain.OrderStatus(status)
	return o, err
}

func findByID(ctx context.Context, q queryRower, id string) (*domain.Order, error) {
	row := q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

func (r *SQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return findByID(ctx, r.db, id)
}

// FindByIDTx reads the order inside tx so the caller sees its own writes.
func (r *SQLOrderRepository) FindByIDTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error) {
	return findByID(ctx, tx, id)
}

// FindAll lists every order, most recent first. Items are not loaded.
func (r *SQLOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *SQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		o.ID, o.CustomerName, o.Email, o.Phone, o.Location,
		o.Latitude, o.Longitude, o.DeliveryNotes,
		o.Subtotal, o.DeliveryFee, o.Total, string(o.Status), o.PaymentVerified,
		o.TransactionID, o.EstimatedDelivery, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

// UpdateStatus writes o's status and estimated delivery, provided the stored
// status still equals from. It reports false when another writer got there
// first.
func (r *SQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, o domain.Order, from domain.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET status = ?, estimated_delivery = ?, updated_at = ?
		WHERE id = ? AND status = ?`

	result, err := tx.ExecContext(ctx, query, string(o.Status), o.EstimatedDelivery, o.UpdatedAt, o.ID, string(from))
	if err != nil {
		return false, fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// MarkPaymentVerified flags the order paid and moves it to o.Status. It only
// touches an unpaid order whose stored status still equals from, and reports
// whether a row changed.
func (r *SQLOrderRepository) MarkPaymentVerified(ctx context.Context, tx *sql.Tx, o domain.Order, from domain.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET payment_verified = ?, status = ?, estimated_delivery = ?, updated_at = ?
		WHERE id = ? AND payment_verified = ? AND status = ?`

	result, err := tx.ExecContext(ctx, query, true, string(o.Status), o.EstimatedDelivery, o.UpdatedAt, o.ID, false, string(from))
	if err != nil {
		return false, fmt.Errorf("marking order payment verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *SQLOrderRepository) SetTransactionID(ctx context.Context, tx *sql.Tx, id string, transactionID string, now time.Time) error {
	result, err := tx.ExecContext(ctx, `UPDATE orders SET transaction_id = ?, updated_at = ? WHERE id = ?`, transactionID, now, id)
	if err != nil {
		return fmt.Errorf("setting order transaction id: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}

	return nil
}
