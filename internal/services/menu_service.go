package services

import (
	"context"
	"errors"
	"strings"

	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/repository"
)

type MenuService struct {
	Repo         *repository.MenuRepository
	CategoryRepo *repository.CategoryRepository
}

func NewMenuService(r *repository.MenuRepository, cr *repository.CategoryRepository) *MenuService {
	return &MenuService{Repo: r, CategoryRepo: cr}
}

func (s *MenuService) CreateMenu(ctx context.Context, m *model.Menu) (int64, error) {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return 0, errors.New("name is required")
	}
	if m.Price < 0 {
		return 0, errors.New("price must be >= 0")
	}
	ok, err := s.Repo.CategoryExists(ctx, m.CategoryID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.New("category not found")
	}
	return s.Repo.CreateMenu(ctx, m)
}

func (s *MenuService) GetMenu(ctx context.Context, id int64) (*model.Menu, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *MenuService) ListMenus(ctx context.Context, limit, offset int) ([]model.Menu, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, limit, offset)
}

func (s *MenuService) ListMenusByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]model.Menu, error) {
	if categoryID <= 0 {
		return nil, errors.New("invalid category id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListByCategory(ctx, categoryID, limit, offset)
}

func (s *MenuService) UpdateMenu(ctx context.Context, m *model.Menu) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return errors.New("name is required")
	}
	if m.Price < 0 {
		return errors.New("price must be >= 0")
	}
	ok, err := s.Repo.CategoryExists(ctx, m.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("category not found")
	}
	return s.Repo.UpdateMenu(ctx, m)
}

func (s *MenuService) DeleteMenu(ctx context.Context, id int64) error {
	return s.Repo.DeleteMenu(ctx, id)
}
