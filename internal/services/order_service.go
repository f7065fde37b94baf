package services

import (
	"context"
	"errors"
	"strings"

	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/repository"
)

type OrderService struct {
	Repo  *repository.OrderRepository
	Users *repository.UserRepository
}

func NewOrderService(r *repository.OrderRepository, ur *repository.UserRepository) *OrderService {
	return &OrderService{Repo: r, Users: ur}
}

// OrderDetail is an order plus its item snapshots.
type OrderDetail struct {
	Order model.Order       `json:"order"`
	Items []model.OrderItem `json:"items"`
}

// History returns the authenticated user's orders, newest first.
func (s *OrderService) History(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// LookupByNumber serves the guest confirmation page: the order number
// alone is guessable, so the matching email is required as well.
func (s *OrderService) LookupByNumber(ctx context.Context, orderNumber, email string) (*OrderDetail, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	email = strings.TrimSpace(strings.ToLower(email))
	if orderNumber == "" || email == "" {
		return nil, errors.New("order number and email are required")
	}

	o, err := s.Repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, o.UserID)
	if err != nil || !strings.EqualFold(u.Email, email) {
		// do not reveal whether the order exists
		return nil, errors.New("order not found")
	}

	items, err := s.Repo.GetItems(ctx, o.OrderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *o, Items: items}, nil
}

// GetOwn returns one of the authenticated user's orders with items.
func (s *OrderService) GetOwn(ctx context.Context, userID, orderID int64) (*OrderDetail, error) {
	o, err := s.Repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, errors.New("order not found")
	}
	items, err := s.Repo.GetItems(ctx, o.OrderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *o, Items: items}, nil
}
