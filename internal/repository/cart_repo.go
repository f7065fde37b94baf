package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CartRepository stores guest carts server-side in the cart_items table,
// keyed by an opaque guest token.
type CartRepository struct {
	DB *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{DB: db}
}

func encodeCustomizations(cs []model.Customization) ([]byte, error) {
	if len(cs) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(cs)
}

// GetItems returns the guest's cart items, oldest first.
func (r *CartRepository) GetItems(ctx context.Context, guestToken string) ([]model.StoredCartItem, error) {
	query := `
		SELECT cartitemid, guest_token, menuid, name, unit_price, quantity, customizations, created_at
		FROM cart_items
		WHERE guest_token=$1
		ORDER BY cartitemid
	`
	rows, err := r.DB.Query(ctx, query, guestToken)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.StoredCartItem
	for rows.Next() {
		var it model.StoredCartItem
		var raw []byte
		if err := rows.Scan(&it.CartItemID, &it.GuestToken, &it.MenuID, &it.Name, &it.UnitPrice, &it.Quantity, &raw, &it.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &it.Customizations); err != nil {
				// corrupted customizations are dropped, not fatal
				it.Customizations = nil
			}
		}
		items = append(items, it)
	}
	return items, nil
}

// AddItem inserts a cart row or increments the quantity when the menu is
// already in the cart. The incremented quantity is capped at maxQty so
// repeated adds cannot push a stored row past the allowed bound.
func (r *CartRepository) AddItem(ctx context.Context, guestToken string, menuID int64, name string, unitPrice float64, qty, maxQty int, customizations []model.Customization) error {
	raw, err := encodeCustomizations(customizations)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO cart_items (guest_token, menuid, name, unit_price, quantity, customizations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (guest_token, menuid)
		DO UPDATE SET quantity = LEAST(cart_items.quantity + EXCLUDED.quantity, $8),
		              customizations = EXCLUDED.customizations
	`
	_, err = r.DB.Exec(ctx, query, guestToken, menuID, name, unitPrice, qty, raw, time.Now(), maxQty)
	return err
}

// SetQuantity sets the exact quantity for a cart row.
func (r *CartRepository) SetQuantity(ctx context.Context, guestToken string, menuID int64, qty int) error {
	query := `UPDATE cart_items SET quantity=$1 WHERE guest_token=$2 AND menuid=$3`
	tag, err := r.DB.Exec(ctx, query, qty, guestToken, menuID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("cart item not found")
	}
	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, guestToken string, menuID int64) error {
	query := `DELETE FROM cart_items WHERE guest_token=$1 AND menuid=$2`
	_, err := r.DB.Exec(ctx, query, guestToken, menuID)
	return err
}

func (r *CartRepository) Clear(ctx context.Context, guestToken string) error {
	query := `DELETE FROM cart_items WHERE guest_token=$1`
	_, err := r.DB.Exec(ctx, query, guestToken)
	return err
}

// ReplaceWithItem empties the cart and puts a single item in it, used by
// the "order this kit now" flow. Runs in its own transaction so a partial
// replace never survives.
func (r *CartRepository) ReplaceWithItem(ctx context.Context, guestToken string, menuID int64, name string, unitPrice float64, customizations []model.Customization) error {
	raw, err := encodeCustomizations(customizations)
	if err != nil {
		return err
	}
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE guest_token=$1`, guestToken); err != nil {
		return err
	}
	query := `
		INSERT INTO cart_items (guest_token, menuid, name, unit_price, quantity, customizations, created_at)
		VALUES ($1, $2, $3, $4, 1, $5, $6)
	`
	if _, err := tx.Exec(ctx, query, guestToken, menuID, name, unitPrice, raw, time.Now()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
