package repository

import (
	"context"
	"errors"
	"time"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// CreatePendingTx inserts the pending payment row as part of the checkout
// transaction. Amount always equals the order total.
func (r *PaymentRepository) CreatePendingTx(ctx context.Context, tx pgx.Tx, p *model.Payment) (int64, error) {
	var paymentID int64
	q := `
		INSERT INTO payments
			(orderid, userid, transactionid, amount, currency, paymentmethod, status, description, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, 'pending', $7, $8, $8)
		RETURNING paymentid
	`
	err := tx.QueryRow(
		ctx, q,
		p.OrderID, p.UserID, p.TransactionID, p.Amount, p.Currency, p.PaymentMethod, p.Description, time.Now(),
	).Scan(&paymentID)

	return paymentID, err
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	var p model.Payment

	q := `
		SELECT paymentid, orderid, userid, transactionid, amount, currency,
		       paymentmethod, status, paymentdate, description, created_at
		FROM payments
		WHERE orderid=$1
	`

	err := r.DB.QueryRow(ctx, q, orderID).Scan(
		&p.PaymentID,
		&p.OrderID,
		&p.UserID,
		&p.TransactionID,
		&p.Amount,
		&p.Currency,
		&p.PaymentMethod,
		&p.Status,
		&p.PaymentDate,
		&p.Description,
		&p.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

// MarkPaidTx completes the pending payment for an order inside a
// transaction. The provider's reference is recorded in description.
func (r *PaymentRepository) MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID int64, description string) error {
	_, err := tx.Exec(ctx, `
		UPDATE payments
		SET status='completed',
		    description=$2,
		    paymentdate=NOW(),
		    updated_at=NOW()
		WHERE orderid=$1 AND status='pending'
	`, orderID, description)

	return err
}

// MarkFailedTx fails the pending payment for an order inside the same
// transaction that fails the order.
func (r *PaymentRepository) MarkFailedTx(ctx context.Context, tx pgx.Tx, orderID int64, description string) error {
	_, err := tx.Exec(ctx, `
		UPDATE payments
		SET status='failed',
		    description=$2,
		    updated_at=NOW()
		WHERE orderid=$1 AND status='pending'
	`, orderID, description)
	return err
}
