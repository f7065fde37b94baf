package repository

import (
	"context"
	"errors"
	"time"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	DB *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

// CreateTx inserts the subscription row inside a caller-owned transaction.
func (r *SubscriptionRepository) CreateTx(ctx context.Context, tx pgx.Tx, userID int64, name string) (int64, error) {
	var id int64
	query := `INSERT INTO subscriptions (userid, name, status, created_at) VALUES ($1, $2, 'active', $3) RETURNING subscriptionid`
	if err := tx.QueryRow(ctx, query, userID, name, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// AddMenusTx attaches a batch of menus to a subscription inside a
// caller-owned transaction. Duplicates are ignored.
func (r *SubscriptionRepository) AddMenusTx(ctx context.Context, tx pgx.Tx, subscriptionID int64, menuIDs []int64) error {
	query := `
		INSERT INTO subscription_menus (subscriptionid, menuid, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (subscriptionid, menuid) DO NOTHING
	`
	now := time.Now()
	for _, menuID := range menuIDs {
		if _, err := tx.Exec(ctx, query, subscriptionID, menuID, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *SubscriptionRepository) AttachMenu(ctx context.Context, subscriptionID, menuID int64) error {
	query := `
		INSERT INTO subscription_menus (subscriptionid, menuid, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (subscriptionid, menuid) DO NOTHING
	`
	_, err := r.DB.Exec(ctx, query, subscriptionID, menuID, time.Now())
	return err
}

func (r *SubscriptionRepository) DetachMenu(ctx context.Context, subscriptionID, menuID int64) error {
	query := `DELETE FROM subscription_menus WHERE subscriptionid=$1 AND menuid=$2`
	tag, err := r.DB.Exec(ctx, query, subscriptionID, menuID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("menu not on subscription")
	}
	return nil
}

const subscriptionSelect = `
	SELECT s.subscriptionid, s.userid, s.name, s.status, s.created_at, s.deleted_at,
	       COALESCE(array_agg(sm.menuid) FILTER (WHERE sm.menuid IS NOT NULL), '{}')
	FROM subscriptions s
	LEFT JOIN subscription_menus sm ON sm.subscriptionid = s.subscriptionid
`

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var s model.Subscription
	if err := row.Scan(&s.SubscriptionID, &s.UserID, &s.Name, &s.Status, &s.CreatedAt, &s.DeletedAt, &s.MenuIDs); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, subscriptionID int64) (*model.Subscription, error) {
	query := subscriptionSelect + `
		WHERE s.subscriptionid=$1 AND s.deleted_at IS NULL
		GROUP BY s.subscriptionid
	`
	s, err := scanSubscription(r.DB.QueryRow(ctx, query, subscriptionID))
	if err != nil {
		return nil, errors.New("subscription not found")
	}
	return s, nil
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]model.Subscription, error) {
	query := subscriptionSelect + `
		WHERE s.userid=$1 AND s.deleted_at IS NULL
		GROUP BY s.subscriptionid
		ORDER BY s.subscriptionid
	`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

// Cancel soft-deletes a subscription; ownership is enforced in the WHERE.
func (r *SubscriptionRepository) Cancel(ctx context.Context, subscriptionID, userID int64) error {
	query := `UPDATE subscriptions SET status='cancelled', deleted_at=$1 WHERE subscriptionid=$2 AND userid=$3 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, time.Now(), subscriptionID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("subscription not found or already cancelled")
	}
	return nil
}
