package repository

import (
	"context"
	"fmt"

	"github.com/dkovalevv/webshop/internal/models"
)

// CreateFeature добавляет характеристику категории и возвращает её id.
func (s *Storage) CreateFeature(ctx context.Context, req models.DummyFeature) (int, error) {
	const op = "storage.CreateFeature"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO features (name, category_id)
			  VALUES ($1, $2)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query, req.Name, req.CategoryID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateFeature переименовывает характеристику.
func (s *Storage) UpdateFeature(ctx context.Context, req models.DummyFeature, id int) (int, error) {
	const op = "storage.UpdateFeature"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE features SET name = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, req.Name, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListFeaturesByCategory возвращает характеристики категории.
func (s *Storage) ListFeaturesByCategory(ctx context.Context, categoryID int) ([]*models.Feature, error) {
	const op = "storage.ListFeaturesByCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, category_id
			  FROM features
			  WHERE category_id = $1
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Feature
	for rows.Next() {
		var item models.Feature
		if err := rows.Scan(&item.ID, &item.Name, &item.CategoryID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
