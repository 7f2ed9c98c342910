package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dkovalevv/webshop/internal/models"
)

type CatalogRepoMock struct {
	mock.Mock
}

func (m *CatalogRepoMock) CreateCategory(ctx context.Context, req models.DummyCategory) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) UpdateCategory(ctx context.Context, req models.DummyCategory, id int) (int, error) {
	args := m.Called(ctx, req, id)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) ReadCategory(ctx context.Context, id int) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CatalogRepoMock) ListRootCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *CatalogRepoMock) CreateArticle(ctx context.Context, req models.DummyArticle) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) UpdateArticle(ctx context.Context, req models.DummyArticle, id int) (int, error) {
	args := m.Called(ctx, req, id)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) ReadArticle(ctx context.Context, id int) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *CatalogRepoMock) ListArticlesByCategory(ctx context.Context, categoryID int) ([]*models.Article, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *CatalogRepoMock) ListAllArticles(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *CatalogRepoMock) SearchArticles(ctx context.Context, filter models.ArticleSearchFilter) ([]*models.Article, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *CatalogRepoMock) CreateFeature(ctx context.Context, req models.DummyFeature) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) UpdateFeature(ctx context.Context, req models.DummyFeature, id int) (int, error) {
	args := m.Called(ctx, req, id)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) ListFeaturesByCategory(ctx context.Context, categoryID int) ([]*models.Feature, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Feature), args.Error(1)
}

func (m *CatalogRepoMock) AddPhoto(ctx context.Context, articleID int, imagePath string) (int, error) {
	args := m.Called(ctx, articleID, imagePath)
	return args.Int(0), args.Error(1)
}

func (m *CatalogRepoMock) RemovePhoto(ctx context.Context, articleID, photoID int) (string, error) {
	args := m.Called(ctx, articleID, photoID)
	return args.String(0), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCatalogService_ReadArticle(t *testing.T) {
	article := &models.Article{ID: 7, Name: "Ноутбук"}

	t.Run("попадание в кеш не обращается к хранилищу", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)
		cache.On("Get", mock.Anything, "article:7", mock.Anything).
			Run(func(args mock.Arguments) {
				*(args.Get(2).(*models.Article)) = *article
			}).
			Return(true, nil)

		svc := NewCatalogService(repo, cache, discardLogger(), t.TempDir())

		got, err := svc.ReadArticle(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "Ноутбук", got.Name)
		repo.AssertNotCalled(t, "ReadArticle")
	})

	t.Run("промах кеша читает хранилище и кеширует", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)
		cache.On("Get", mock.Anything, "article:7", mock.Anything).Return(false, nil)
		repo.On("ReadArticle", mock.Anything, 7).Return(article, nil)
		cache.On("Set", mock.Anything, "article:7", article, cacheTTL).Return(nil)

		svc := NewCatalogService(repo, cache, discardLogger(), t.TempDir())

		got, err := svc.ReadArticle(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, article, got)
		cache.AssertExpectations(t)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)
		cache.On("Get", mock.Anything, "article:7", mock.Anything).Return(false, nil)
		repo.On("ReadArticle", mock.Anything, 7).Return(nil, errors.New("db down"))

		svc := NewCatalogService(repo, cache, discardLogger(), t.TempDir())

		_, err := svc.ReadArticle(context.Background(), 7)
		require.Error(t, err)
	})
}

func TestCatalogService_CreateArticle_Sanitization(t *testing.T) {
	repo := new(CatalogRepoMock)
	cache := new(CacheMock)

	repo.On("CreateArticle", mock.Anything, mock.MatchedBy(func(req models.DummyArticle) bool {
		return req.Name == "Ноутбук" &&
			req.Description == "<p>Хороший</p>" &&
			req.Excerpt == "кратко"
	})).Return(3, nil)

	svc := NewCatalogService(repo, cache, discardLogger(), t.TempDir())

	id, err := svc.CreateArticle(context.Background(), models.DummyArticle{
		Name:        "Ноутбук<script>alert(1)</script>",
		Excerpt:     "<b>кратко</b>",
		Description: "<p>Хороший</p><script>alert(1)</script>",
		CategoryID:  1,
		Status:      models.ArticleAvailable,
		Price:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, id)
	repo.AssertExpectations(t)
}

func TestCatalogService_UpdateCategory_InvalidatesCache(t *testing.T) {
	repo := new(CatalogRepoMock)
	cache := new(CacheMock)

	repo.On("UpdateCategory", mock.Anything, mock.Anything, 4).Return(1, nil)
	cache.On("Invalidate", mock.Anything, "category:4").Return(nil)
	cache.On("Invalidate", mock.Anything, rootCategoriesKey).Return(nil)

	svc := NewCatalogService(repo, cache, discardLogger(), t.TempDir())

	count, err := svc.UpdateCategory(context.Background(), models.DummyCategory{Name: "Техника"}, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	cache.AssertExpectations(t)
}

func TestCatalogService_AddPhoto(t *testing.T) {
	t.Run("успешная загрузка сохраняет файл", func(t *testing.T) {
		dir := t.TempDir()
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)

		var savedName string
		repo.On("AddPhoto", mock.Anything, 7, mock.MatchedBy(func(name string) bool {
			savedName = name
			return filepath.Ext(name) == ".jpg"
		})).Return(11, nil)
		cache.On("Invalidate", mock.Anything, "article:7").Return(nil)

		svc := NewCatalogService(repo, cache, discardLogger(), dir)

		id, err := svc.AddPhoto(context.Background(), 7, "photo.jpg", bytes.NewReader([]byte("image-bytes")))
		require.NoError(t, err)
		assert.Equal(t, 11, id)

		content, err := os.ReadFile(filepath.Join(dir, savedName))
		require.NoError(t, err)
		assert.Equal(t, []byte("image-bytes"), content)
	})

	t.Run("ошибка хранилища удаляет файл с диска", func(t *testing.T) {
		dir := t.TempDir()
		repo := new(CatalogRepoMock)
		cache := new(CacheMock)

		repo.On("AddPhoto", mock.Anything, 7, mock.Anything).Return(0, errors.New("db down"))

		svc := NewCatalogService(repo, cache, discardLogger(), dir)

		_, err := svc.AddPhoto(context.Background(), 7, "photo.jpg", bytes.NewReader([]byte("image-bytes")))
		require.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestCatalogService_RemovePhoto(t *testing.T) {
	dir := t.TempDir()
	repo := new(CatalogRepoMock)
	cache := new(CacheMock)

	fullPath := filepath.Join(dir, "old.jpg")
	require.NoError(t, os.WriteFile(fullPath, []byte("image-bytes"), 0o644))

	repo.On("RemovePhoto", mock.Anything, 7, 11).Return("old.jpg", nil)
	cache.On("Invalidate", mock.Anything, "article:7").Return(nil)

	svc := NewCatalogService(repo, cache, discardLogger(), dir)

	err := svc.RemovePhoto(context.Background(), 7, 11)
	require.NoError(t, err)

	_, err = os.Stat(fullPath)
	assert.True(t, os.IsNotExist(err))
}
