package repository

import (
	"context"
	"fmt"

	"github.com/dkovalevv/webshop/internal/models"
)

// AddPhoto привязывает загруженный файл к артикулу и возвращает id фотографии.
func (s *Storage) AddPhoto(ctx context.Context, articleID int, imagePath string) (int, error) {
	const op = "storage.AddPhoto"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO photos (article_id, image_path)
			  VALUES ($1, $2)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query, articleID, imagePath).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// RemovePhoto удаляет привязку фотографии и возвращает путь удалённого файла,
// чтобы вызывающий мог убрать его с диска. Пустой путь означает, что
// фотографии с таким id у артикула нет.
func (s *Storage) RemovePhoto(ctx context.Context, articleID, photoID int) (string, error) {
	const op = "storage.RemovePhoto"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var imagePath string
	query := `DELETE FROM photos
			  WHERE id = $1 AND article_id = $2
			  RETURNING image_path`
	err := s.DB.QueryRowContext(ctx, query, photoID, articleID).Scan(&imagePath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return imagePath, nil
}

// ListArticlePhotos возвращает фотографии артикула.
func (s *Storage) ListArticlePhotos(ctx context.Context, articleID int) ([]models.Photo, error) {
	const op = "storage.ListArticlePhotos"

	query := `SELECT id, article_id, image_path
			  FROM photos
			  WHERE article_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Photo
	for rows.Next() {
		var item models.Photo
		if err := rows.Scan(&item.ID, &item.ArticleID, &item.ImagePath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
