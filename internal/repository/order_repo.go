package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `orderid, order_number, userid, delivery_date, delivery_address, delivery_instructions, subtotal, delivery_fee, tax_amount, total, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	if err := row.Scan(&o.OrderID, &o.OrderNumber, &o.UserID, &o.DeliveryDate,
		&o.DeliveryAddress, &o.DeliveryInstructions, &o.Subtotal, &o.DeliveryFee,
		&o.TaxAmount, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrderTx inserts the order row inside a caller-owned transaction
// and returns the new orderid.
func (r *OrderRepository) CreateOrderTx(ctx context.Context, tx pgx.Tx, o *model.Order) (int64, error) {
	var id int64
	query := `
		INSERT INTO orders
			(order_number, userid, delivery_date, delivery_address, delivery_instructions,
			 subtotal, delivery_fee, tax_amount, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING orderid
	`
	if err := tx.QueryRow(ctx, query,
		o.OrderNumber, o.UserID, o.DeliveryDate, o.DeliveryAddress, o.DeliveryInstructions,
		o.Subtotal, o.DeliveryFee, o.TaxAmount, o.Total, o.Status, time.Now(),
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// CreateOrderItemTx inserts one order item snapshot inside a caller-owned
// transaction.
func (r *OrderRepository) CreateOrderItemTx(ctx context.Context, tx pgx.Tx, it *model.OrderItem) error {
	raw, err := json.Marshal(it.Customizations)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO order_items
			(orderid, menuid, menu_name, menu_price, quantity, total_price, customizations, special_requests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`
	_, err = tx.Exec(ctx, query,
		it.OrderID, it.MenuID, it.MenuName, it.MenuPrice, it.Quantity, it.TotalPrice,
		raw, it.SpecialRequests, time.Now())
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE orderid=$1`
	o, err := scanOrder(r.DB.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, errors.New("order not found")
	}
	return o, nil
}

func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number=$1`
	o, err := scanOrder(r.DB.QueryRow(ctx, query, orderNumber))
	if err != nil {
		return nil, errors.New("order not found")
	}
	return o, nil
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE userid=$1 ORDER BY orderid DESC`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

// GetItems returns the item snapshots for an order.
func (r *OrderRepository) GetItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	query := `
		SELECT orderitemid, orderid, menuid, menu_name, menu_price, quantity, total_price, customizations, special_requests, created_at
		FROM order_items
		WHERE orderid=$1
		ORDER BY orderitemid
	`
	rows, err := r.DB.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		var raw []byte
		if err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.MenuID, &it.MenuName,
			&it.MenuPrice, &it.Quantity, &it.TotalPrice, &raw, &it.SpecialRequests, &it.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &it.Customizations); err != nil {
				it.Customizations = nil
			}
		}
		items = append(items, it)
	}
	return items, nil
}

// MarkPaidTx flips a pending order to paid inside a transaction.
func (r *OrderRepository) MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID int64) error {
	query := `UPDATE orders SET status=$1, updated_at=$2 WHERE orderid=$3 AND status=$4`
	_, err := tx.Exec(ctx, query, model.OrderStatusPaid, time.Now(), orderID, model.OrderStatusPending)
	return err
}

// MarkFailedTx flips a pending order to failed inside a transaction.
func (r *OrderRepository) MarkFailedTx(ctx context.Context, tx pgx.Tx, orderID int64) error {
	query := `UPDATE orders SET status=$1, updated_at=$2 WHERE orderid=$3 AND status=$4`
	_, err := tx.Exec(ctx, query, model.OrderStatusFailed, time.Now(), orderID, model.OrderStatusPending)
	return err
}
