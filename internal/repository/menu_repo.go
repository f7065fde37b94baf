package repository

import (
	"context"
	"errors"
	"time"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MenuRepository struct {
	DB *pgxpool.Pool
}

func NewMenuRepository(db *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) CreateMenu(ctx context.Context, m *model.Menu) (int64, error) {
	var id int64
	query := `INSERT INTO menus (categoryid, name, description, price, available, created_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING menuid`
	if err := r.DB.QueryRow(ctx, query, m.CategoryID, m.Name, m.Description, m.Price, m.Available, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*model.Menu, error) {
	var m model.Menu
	query := `
		SELECT menuid, categoryid, name, description, price, available, created_at, deleted_at
		FROM menus
		WHERE menuid=$1 AND deleted_at IS NULL
	`
	if err := r.DB.
		QueryRow(ctx, query, id).
		Scan(&m.MenuID, &m.CategoryID, &m.Name, &m.Description, &m.Price, &m.Available, &m.CreatedAt, &m.DeletedAt); err != nil {
		return nil, errors.New("menu not found")
	}
	return &m, nil
}

func (r *MenuRepository) List(ctx context.Context, limit, offset int) ([]model.Menu, error) {
	query := `SELECT menuid, categoryid, name, description, price, available, created_at, deleted_at FROM menus WHERE deleted_at IS NULL ORDER BY menuid LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Menu
	for rows.Next() {
		var m model.Menu
		if err := rows.Scan(&m.MenuID, &m.CategoryID, &m.Name, &m.Description, &m.Price, &m.Available, &m.CreatedAt, &m.DeletedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, nil
}

func (r *MenuRepository) ListByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]model.Menu, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT menuid, categoryid, name, description, price, available, created_at, deleted_at FROM menus WHERE categoryid=$1 AND deleted_at IS NULL ORDER BY menuid LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Menu
	for rows.Next() {
		var m model.Menu
		if err := rows.Scan(&m.MenuID, &m.CategoryID, &m.Name, &m.Description, &m.Price, &m.Available, &m.CreatedAt, &m.DeletedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, nil
}

func (r *MenuRepository) UpdateMenu(ctx context.Context, m *model.Menu) error {
	query := `UPDATE menus SET categoryid=$1, name=$2, description=$3, price=$4, available=$5 WHERE menuid=$6 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, m.CategoryID, m.Name, m.Description, m.Price, m.Available, m.MenuID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("menu not found or deleted")
	}
	return nil
}

func (r *MenuRepository) DeleteMenu(ctx context.Context, id int64) error {
	query := `UPDATE menus SET deleted_at=$1 WHERE menuid=$2 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("menu not found or already deleted")
	}
	return nil
}

func (r *MenuRepository) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM menu_categories WHERE categoryid=$1 AND deleted_at IS NULL)`
	if err := r.DB.QueryRow(ctx, query, categoryID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
