// Package services содержит бизнес-логику каталога: категории, артикулы,
// характеристики и фотографии, с кешированием горячих чтений.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dkovalevv/webshop/internal/lib/sl"
	"github.com/dkovalevv/webshop/internal/models"
)

// CatalogRepository определяет методы для работы с каталогом в хранилище.
type CatalogRepository interface {
	CreateCategory(ctx context.Context, req models.DummyCategory) (int, error)
	UpdateCategory(ctx context.Context, req models.DummyCategory, id int) (int, error)
	ReadCategory(ctx context.Context, id int) (*models.Category, error)
	ListRootCategories(ctx context.Context) ([]*models.Category, error)

	CreateArticle(ctx context.Context, req models.DummyArticle) (int, error)
	UpdateArticle(ctx context.Context, req models.DummyArticle, id int) (int, error)
	ReadArticle(ctx context.Context, id int) (*models.Article, error)
	ListArticlesByCategory(ctx context.Context, categoryID int) ([]*models.Article, error)
	ListAllArticles(ctx context.Context, limit, offset int) ([]*models.Article, error)
	SearchArticles(ctx context.Context, filter models.ArticleSearchFilter) ([]*models.Article, error)

	CreateFeature(ctx context.Context, req models.DummyFeature) (int, error)
	UpdateFeature(ctx context.Context, req models.DummyFeature, id int) (int, error)
	ListFeaturesByCategory(ctx context.Context, categoryID int) ([]*models.Feature, error)

	AddPhoto(ctx context.Context, articleID int, imagePath string) (int, error)
	RemovePhoto(ctx context.Context, articleID, photoID int) (string, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

const cacheTTL = 10 * time.Minute

// CatalogService реализует бизнес-логику каталога. Описания артикулов
// проходят санитизацию HTML перед записью, чтения категорий и артикулов
// кешируются, записи инвалидируют затронутые ключи.
type CatalogService struct {
	repo      CatalogRepository
	cache     Cache
	log       *slog.Logger
	photoDir  string
	sanitizer *bluemonday.Policy
	strict    *bluemonday.Policy
}

// NewCatalogService создает новый экземпляр CatalogService.
// photoDir — каталог на диске для файлов фотографий.
func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger, photoDir string) *CatalogService {
	return &CatalogService{
		repo:      repo,
		cache:     cache,
		log:       log,
		photoDir:  photoDir,
		sanitizer: bluemonday.UGCPolicy(),
		strict:    bluemonday.StrictPolicy(),
	}
}

func categoryKey(id int) string { return fmt.Sprintf("category:%d", id) }
func articleKey(id int) string  { return fmt.Sprintf("article:%d", id) }

const rootCategoriesKey = "categories:root"

// CreateCategory добавляет категорию и сбрасывает кеш дерева категорий.
func (s *CatalogService) CreateCategory(ctx context.Context, req models.DummyCategory) (int, error) {
	req.Name = s.strict.Sanitize(req.Name)
	id, err := s.repo.CreateCategory(ctx, req)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, rootCategoriesKey)
	if req.ParentID != nil {
		s.invalidate(ctx, categoryKey(*req.ParentID))
	}
	return id, nil
}

// UpdateCategory обновляет категорию и сбрасывает её кеш.
func (s *CatalogService) UpdateCategory(ctx context.Context, req models.DummyCategory, id int) (int, error) {
	req.Name = s.strict.Sanitize(req.Name)
	count, err := s.repo.UpdateCategory(ctx, req, id)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, categoryKey(id))
	s.invalidate(ctx, rootCategoriesKey)
	return count, nil
}

// ReadCategory возвращает категорию с подкатегориями, сперва из кеша.
func (s *CatalogService) ReadCategory(ctx context.Context, id int) (*models.Category, error) {
	var cached models.Category
	if found, err := s.cache.Get(ctx, categoryKey(id), &cached); err == nil && found {
		return &cached, nil
	}

	category, err := s.repo.ReadCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, categoryKey(id), category, cacheTTL); err != nil {
		s.log.Warn("failed to cache category", sl.Err(err))
	}
	return category, nil
}

// ListRootCategories возвращает корневые категории, сперва из кеша.
func (s *CatalogService) ListRootCategories(ctx context.Context) ([]*models.Category, error) {
	var cached []*models.Category
	if found, err := s.cache.Get(ctx, rootCategoriesKey, &cached); err == nil && found {
		return cached, nil
	}

	categories, err := s.repo.ListRootCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, rootCategoriesKey, categories, cacheTTL); err != nil {
		s.log.Warn("failed to cache root categories", sl.Err(err))
	}
	return categories, nil
}

// CreateArticle санитизирует текстовые поля, создаёт артикул с первой
// записью истории цен и возвращает его id.
func (s *CatalogService) CreateArticle(ctx context.Context, req models.DummyArticle) (int, error) {
	s.sanitizeArticle(&req)
	return s.repo.CreateArticle(ctx, req)
}

// UpdateArticle обновляет артикул. Изменение цены добавляет запись истории,
// прежние записи не трогаются.
func (s *CatalogService) UpdateArticle(ctx context.Context, req models.DummyArticle, id int) (int, error) {
	s.sanitizeArticle(&req)
	count, err := s.repo.UpdateArticle(ctx, req, id)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, articleKey(id))
	return count, nil
}

func (s *CatalogService) sanitizeArticle(req *models.DummyArticle) {
	req.Name = s.strict.Sanitize(req.Name)
	req.Excerpt = s.strict.Sanitize(req.Excerpt)
	req.Description = s.sanitizer.Sanitize(req.Description)
}

// ReadArticle возвращает артикул с историей цен, фотографиями
// и характеристиками, сперва из кеша.
func (s *CatalogService) ReadArticle(ctx context.Context, id int) (*models.Article, error) {
	var cached models.Article
	if found, err := s.cache.Get(ctx, articleKey(id), &cached); err == nil && found {
		return &cached, nil
	}

	article, err := s.repo.ReadArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, articleKey(id), article, cacheTTL); err != nil {
		s.log.Warn("failed to cache article", sl.Err(err))
	}
	return article, nil
}

// ListArticlesByCategory возвращает видимые артикулы категории.
func (s *CatalogService) ListArticlesByCategory(ctx context.Context, categoryID int) ([]*models.Article, error) {
	return s.repo.ListArticlesByCategory(ctx, categoryID)
}

// ListAllArticles возвращает все артикулы с пагинацией, включая скрытые.
func (s *CatalogService) ListAllArticles(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	return s.repo.ListAllArticles(ctx, limit, offset)
}

// SearchArticles ищет артикулы категории по фильтру.
func (s *CatalogService) SearchArticles(ctx context.Context, filter models.ArticleSearchFilter) ([]*models.Article, error) {
	filter.Keywords = s.strict.Sanitize(filter.Keywords)
	return s.repo.SearchArticles(ctx, filter)
}

// CreateFeature добавляет характеристику категории.
func (s *CatalogService) CreateFeature(ctx context.Context, req models.DummyFeature) (int, error) {
	req.Name = s.strict.Sanitize(req.Name)
	return s.repo.CreateFeature(ctx, req)
}

// UpdateFeature переименовывает характеристику.
func (s *CatalogService) UpdateFeature(ctx context.Context, req models.DummyFeature, id int) (int, error) {
	req.Name = s.strict.Sanitize(req.Name)
	return s.repo.UpdateFeature(ctx, req, id)
}

// ListFeaturesByCategory возвращает характеристики категории.
func (s *CatalogService) ListFeaturesByCategory(ctx context.Context, categoryID int) ([]*models.Feature, error) {
	return s.repo.ListFeaturesByCategory(ctx, categoryID)
}

// AddPhoto сохраняет файл фотографии на диск под уникальным именем
// и привязывает его к артикулу.
func (s *CatalogService) AddPhoto(ctx context.Context, articleID int, filename string, data io.Reader) (int, error) {
	const op = "services.catalog.AddPhoto"

	name := uuid.NewString() + filepath.Ext(filename)
	fullPath := filepath.Join(s.photoDir, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(dst, data); err != nil {
		_ = dst.Close()
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := dst.Close(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.AddPhoto(ctx, articleID, name)
	if err != nil {
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, articleKey(articleID))
	return id, nil
}

// RemovePhoto отвязывает фотографию от артикула и удаляет файл с диска.
func (s *CatalogService) RemovePhoto(ctx context.Context, articleID, photoID int) error {
	const op = "services.catalog.RemovePhoto"

	imagePath, err := s.repo.RemovePhoto(ctx, articleID, photoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if imagePath != "" {
		if err := os.Remove(filepath.Join(s.photoDir, imagePath)); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to remove photo file", sl.Err(err))
		}
	}
	s.invalidate(ctx, articleKey(articleID))
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, key string) {
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
	}
}
