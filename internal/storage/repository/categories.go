package repository

import (
	"context"
	"fmt"

	"github.com/dkovalevv/webshop/internal/models"
)

// CreateCategory вставляет новую категорию и возвращает её ID.
func (s *Storage) CreateCategory(ctx context.Context, req models.DummyCategory) (int, error) {
	const op = "storage.CreateCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO categories (name, parent_id)
			  VALUES ($1, $2)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query, req.Name, req.ParentID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateCategory обновляет категорию по её ID и возвращает количество изменённых строк.
func (s *Storage) UpdateCategory(ctx context.Context, req models.DummyCategory, id int) (int, error) {
	const op = "storage.UpdateCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE categories
			  SET name = $1, parent_id = $2
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, req.Name, req.ParentID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ReadCategory возвращает категорию вместе с её подкатегориями.
func (s *Storage) ReadCategory(ctx context.Context, id int) (*models.Category, error) {
	const op = "storage.ReadCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, parent_id FROM categories WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var category models.Category
	if err := row.Scan(&category.ID, &category.Name, &category.ParentID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subs, err := s.listCategoriesByParent(ctx, &id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	category.Subcategories = subs
	return &category, nil
}

// ListRootCategories возвращает корневые категории каталога.
func (s *Storage) ListRootCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "storage.ListRootCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.listCategoriesByParent(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllCategories возвращает полный плоский список категорий.
func (s *Storage) ListAllCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "storage.ListAllCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, parent_id FROM categories ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Category
	for rows.Next() {
		var item models.Category
		if err := rows.Scan(&item.ID, &item.Name, &item.ParentID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) listCategoriesByParent(ctx context.Context, parentID *int) ([]*models.Category, error) {
	query := `SELECT id, name, parent_id
			  FROM categories
			  WHERE ($1::int IS NULL AND parent_id IS NULL) OR parent_id = $1
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Category
	for rows.Next() {
		var item models.Category
		if err := rows.Scan(&item.ID, &item.Name, &item.ParentID); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	return result, rows.Err()
}
