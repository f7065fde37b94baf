package services

import (
	"context"
	"errors"
	"strings"

	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/repository"
)

type CategoryService struct {
	Repo *repository.CategoryRepository
}

func NewCategoryService(r *repository.CategoryRepository) *CategoryService {
	return &CategoryService{Repo: r}
}

func (s *CategoryService) Create(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("category name is required")
	}
	exists, err := s.Repo.ExistsByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, errors.New("category already exists")
	}
	return s.Repo.Create(ctx, name)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*model.MenuCategory, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]model.MenuCategory, error) {
	return s.Repo.List(ctx)
}

func (s *CategoryService) Update(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("category name is required")
	}
	return s.Repo.Update(ctx, id, name)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
