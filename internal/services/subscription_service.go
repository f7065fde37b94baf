package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/repository"
)

// SubscriptionService manages weekly meal plans.
type SubscriptionService struct {
	Repo     *repository.SubscriptionRepository
	MenuRepo *repository.MenuRepository
}

func NewSubscriptionService(r *repository.SubscriptionRepository, mr *repository.MenuRepository) *SubscriptionService {
	return &SubscriptionService{Repo: r, MenuRepo: mr}
}

// Create builds a subscription and attaches its menus in one transaction;
// a bad menu id fails the whole thing.
func (s *SubscriptionService) Create(ctx context.Context, userID int64, name string, menuIDs []int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Weekly Plan"
	}
	if len(menuIDs) == 0 {
		return 0, errors.New("at least one menu is required")
	}

	seen := make(map[int64]bool, len(menuIDs))
	unique := make([]int64, 0, len(menuIDs))
	for _, id := range menuIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)

		if _, err := s.MenuRepo.GetByID(ctx, id); err != nil {
			return 0, fmt.Errorf("menu %d: %w", id, err)
		}
	}

	tx, err := s.Repo.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	subID, err := s.Repo.CreateTx(ctx, tx, userID, name)
	if err != nil {
		return 0, err
	}
	if err := s.Repo.AddMenusTx(ctx, tx, subID, unique); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return subID, nil
}

func (s *SubscriptionService) List(ctx context.Context, userID int64) ([]model.Subscription, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *SubscriptionService) AttachMenu(ctx context.Context, userID, subscriptionID, menuID int64) error {
	sub, err := s.Repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.UserID != userID {
		return errors.New("subscription not found")
	}
	if _, err := s.MenuRepo.GetByID(ctx, menuID); err != nil {
		return err
	}
	return s.Repo.AttachMenu(ctx, subscriptionID, menuID)
}

func (s *SubscriptionService) DetachMenu(ctx context.Context, userID, subscriptionID, menuID int64) error {
	sub, err := s.Repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.UserID != userID {
		return errors.New("subscription not found")
	}
	return s.Repo.DetachMenu(ctx, subscriptionID, menuID)
}

func (s *SubscriptionService) Cancel(ctx context.Context, userID, subscriptionID int64) error {
	return s.Repo.Cancel(ctx, subscriptionID, userID)
}
