package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkovalevv/webshop/internal/models"
)

// CreateArticle вставляет новый артикул вместе с первой записью истории цен
// и значениями характеристик. Всё выполняется в одной транзакции: артикул
// без единой записи цены существовать не должен.
func (s *Storage) CreateArticle(ctx context.Context, req models.DummyArticle) (int, error) {
	const op = "storage.CreateArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID int
	query := `INSERT INTO articles (name, category_id, excerpt, description, status, is_promoted)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		req.Name, req.CategoryID, req.Excerpt, req.Description, req.Status, req.IsPromoted).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO article_prices (article_id, price) VALUES ($1, $2)`,
		newID, req.Price)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, f := range req.Features {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO article_features (article_id, feature_id, value) VALUES ($1, $2, $3)`,
			newID, f.FeatureID, f.Value)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateArticle обновляет данные артикула. История цен не переписывается:
// если цена изменилась относительно последней записи, добавляется новая
// запись истории. Значения характеристик заменяются целиком.
func (s *Storage) UpdateArticle(ctx context.Context, req models.DummyArticle, id int) (int, error) {
	const op = "storage.UpdateArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE articles
			  SET name = $1, category_id = $2, excerpt = $3, description = $4,
			      status = $5, is_promoted = $6
			  WHERE id = $7`
	result, err := tx.ExecContext(ctx, query,
		req.Name, req.CategoryID, req.Excerpt, req.Description, req.Status, req.IsPromoted, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return 0, nil
	}

	var lastPrice float64
	err = tx.QueryRowContext(ctx,
		`SELECT price FROM article_prices WHERE article_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		id).Scan(&lastPrice)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if lastPrice != req.Price {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO article_prices (article_id, price) VALUES ($1, $2)`,
			id, req.Price)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM article_features WHERE article_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	for _, f := range req.Features {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO article_features (article_id, feature_id, value) VALUES ($1, $2, $3)`,
			id, f.FeatureID, f.Value)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ReadArticle возвращает артикул с категорией, историей цен, фотографиями
// и значениями характеристик.
func (s *Storage) ReadArticle(ctx context.Context, id int) (*models.Article, error) {
	const op = "storage.ReadArticle"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT a.id, a.name, a.category_id, a.excerpt, a.description, a.status, a.is_promoted,
			      c.id, c.name, c.parent_id
			  FROM articles a
			  JOIN categories c ON c.id = a.category_id
			  WHERE a.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var article models.Article
	var category models.Category
	if err := row.Scan(&article.ID, &article.Name, &article.CategoryID, &article.Excerpt,
		&article.Description, &article.Status, &article.IsPromoted,
		&category.ID, &category.Name, &category.ParentID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	article.Category = &category

	if err := s.hydrateArticle(ctx, &article); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &article, nil
}

// ListArticlesByCategory возвращает видимые артикулы категории с историей цен
// и фотографиями.
func (s *Storage) ListArticlesByCategory(ctx context.Context, categoryID int) ([]*models.Article, error) {
	const op = "storage.ListArticlesByCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, category_id, excerpt, description, status, is_promoted
			  FROM articles
			  WHERE category_id = $1 AND status <> 'hidden'
			  ORDER BY id`
	result, err := s.queryArticles(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllArticles возвращает все артикулы каталога с пагинацией,
// включая скрытые — административный список.
func (s *Storage) ListAllArticles(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	const op = "storage.ListAllArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, category_id, excerpt, description, status, is_promoted
			  FROM articles
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	result, err := s.queryArticles(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SearchArticles ищет артикулы категории по ключевым словам, диапазону
// текущей цены и значениям характеристик.
func (s *Storage) SearchArticles(ctx context.Context, filter models.ArticleSearchFilter) ([]*models.Article, error) {
	const op = "storage.SearchArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conditions []string
	var args []any

	args = append(args, filter.CategoryID)
	conditions = append(conditions, fmt.Sprintf("a.category_id = $%d", len(args)))
	conditions = append(conditions, "a.status <> 'hidden'")

	if filter.Keywords != "" {
		args = append(args, "%"+filter.Keywords+"%")
		conditions = append(conditions,
			fmt.Sprintf("(a.name ILIKE $%d OR a.excerpt ILIKE $%d OR a.description ILIKE $%d)",
				len(args), len(args), len(args)))
	}

	currentPrice := `(SELECT ap.price FROM article_prices ap
		 WHERE ap.article_id = a.id ORDER BY ap.created_at DESC, ap.id DESC LIMIT 1)`
	if filter.PriceMin != nil {
		args = append(args, *filter.PriceMin)
		conditions = append(conditions, fmt.Sprintf("%s >= $%d", currentPrice, len(args)))
	}
	if filter.PriceMax != nil {
		args = append(args, *filter.PriceMax)
		conditions = append(conditions, fmt.Sprintf("%s <= $%d", currentPrice, len(args)))
	}

	for _, f := range filter.Features {
		args = append(args, f.FeatureID)
		featureArg := len(args)
		args = append(args, f.Value)
		conditions = append(conditions,
			fmt.Sprintf(`EXISTS (SELECT 1 FROM article_features af
				 WHERE af.article_id = a.id AND af.feature_id = $%d AND af.value = $%d)`,
				featureArg, len(args)))
	}

	orderBy := "a.name"
	if filter.OrderBy == "price" {
		orderBy = currentPrice
	}
	direction := "ASC"
	if filter.OrderDirection == "desc" {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT a.id, a.name, a.category_id, a.excerpt, a.description, a.status, a.is_promoted
		FROM articles a
		WHERE %s
		ORDER BY %s %s`,
		strings.Join(conditions, " AND "), orderBy, direction)

	result, err := s.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) queryArticles(ctx context.Context, query string, args ...any) ([]*models.Article, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Article
	for rows.Next() {
		var item models.Article
		if err := rows.Scan(&item.ID, &item.Name, &item.CategoryID, &item.Excerpt,
			&item.Description, &item.Status, &item.IsPromoted); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, item := range result {
		if err := s.hydrateArticle(ctx, item); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// hydrateArticle догружает историю цен, фотографии и характеристики артикула.
func (s *Storage) hydrateArticle(ctx context.Context, article *models.Article) error {
	prices, err := s.ReadArticlePrices(ctx, article.ID)
	if err != nil {
		return err
	}
	article.Prices = prices

	photos, err := s.ListArticlePhotos(ctx, article.ID)
	if err != nil {
		return err
	}
	article.Photos = photos

	features, err := s.readArticleFeatures(ctx, article.ID)
	if err != nil {
		return err
	}
	article.Features = features
	return nil
}

// ReadArticlePrices возвращает историю цен артикула в хронологическом порядке.
func (s *Storage) ReadArticlePrices(ctx context.Context, articleID int) ([]models.ArticlePrice, error) {
	const op = "storage.ReadArticlePrices"

	query := `SELECT id, price, created_at
			  FROM article_prices
			  WHERE article_id = $1
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ArticlePrice
	for rows.Next() {
		var item models.ArticlePrice
		if err := rows.Scan(&item.ID, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) readArticleFeatures(ctx context.Context, articleID int) ([]models.ArticleFeature, error) {
	query := `SELECT af.feature_id, f.name, af.value
			  FROM article_features af
			  JOIN features f ON f.id = af.feature_id
			  WHERE af.article_id = $1
			  ORDER BY f.name`
	rows, err := s.DB.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ArticleFeature
	for rows.Next() {
		var item models.ArticleFeature
		if err := rows.Scan(&item.FeatureID, &item.Name, &item.Value); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
