package model

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Payment struct {
	PaymentID     int64      `db:"paymentid" json:"payment_id"`
	OrderID       int64      `db:"orderid" json:"order_id"`
	UserID        int64      `db:"userid" json:"user_id"`
	TransactionID string     `db:"transactionid" json:"transaction_id"`
	Amount        float64    `db:"amount" json:"amount"`
	Currency      string     `db:"currency" json:"currency"`
	PaymentMethod string     `db:"paymentmethod" json:"payment_method"`
	Status        string     `db:"status" json:"status"`
	PaymentDate   *time.Time `db:"paymentdate" json:"payment_date"`
	Description   *string    `db:"description" json:"description"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
