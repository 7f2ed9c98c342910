package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalevv/webshop/internal/models"
)

func TestStorage_CreateArticle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	categoryID := factory.CreateCategory(t, "Ноутбуки", nil)
	featureID := factory.CreateFeature(t, "Цвет", categoryID)

	t.Run("успешное создание с характеристиками", func(t *testing.T) {
		id, err := storage.CreateArticle(ctx, models.DummyArticle{
			Name:        "Ноутбук Alpha",
			CategoryID:  categoryID,
			Excerpt:     "короткое описание",
			Description: "полное описание",
			Status:      models.ArticleAvailable,
			Price:       999.99,
			Features:    []models.DummyFeatureValue{{FeatureID: featureID, Value: "серый"}},
		})
		require.NoError(t, err)
		require.Greater(t, id, 0)

		// Первая запись истории цен создается вместе с артикулом
		verify.VerifyPriceCount(t, id, 1)

		article, err := storage.ReadArticle(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Ноутбук Alpha", article.Name)
		assert.InDelta(t, 999.99, article.CurrentPrice(), 0.001)
		require.Len(t, article.Features, 1)
		assert.Equal(t, "серый", article.Features[0].Value)
		require.NotNil(t, article.Category)
		assert.Equal(t, "Ноутбуки", article.Category.Name)
	})

	t.Run("создание без характеристик", func(t *testing.T) {
		id, err := storage.CreateArticle(ctx, models.DummyArticle{
			Name:        "Ноутбук Beta",
			CategoryID:  categoryID,
			Excerpt:     "короткое описание",
			Description: "полное описание",
			Status:      models.ArticleVisible,
			Price:       100,
		})
		require.NoError(t, err)

		article, err := storage.ReadArticle(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, article.Features)
		verify.VerifyPriceCount(t, id, 1)
	})
}

func TestStorage_UpdateArticle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	categoryID := factory.CreateCategory(t, "Телефоны", nil)

	base := models.DummyArticle{
		Name:        "Телефон Alpha",
		CategoryID:  categoryID,
		Excerpt:     "короткое описание",
		Description: "полное описание",
		Status:      models.ArticleAvailable,
		Price:       500,
	}
	articleID, err := storage.CreateArticle(ctx, base)
	require.NoError(t, err)

	t.Run("обновление без изменения цены не добавляет запись истории", func(t *testing.T) {
		updated := base
		updated.Name = "Телефон Alpha v2"

		count, err := storage.UpdateArticle(ctx, updated, articleID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		verify.VerifyPriceCount(t, articleID, 1)
	})

	t.Run("изменение цены добавляет новую запись истории", func(t *testing.T) {
		updated := base
		updated.Price = 450

		count, err := storage.UpdateArticle(ctx, updated, articleID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		verify.VerifyPriceCount(t, articleID, 2)

		article, err := storage.ReadArticle(ctx, articleID)
		require.NoError(t, err)
		assert.InDelta(t, 450, article.CurrentPrice(), 0.001)
		// История остается в хронологическом порядке
		assert.InDelta(t, 500, article.Prices[0].Price, 0.001)
	})

	t.Run("обновление несуществующего артикула", func(t *testing.T) {
		count, err := storage.UpdateArticle(ctx, base, 99999)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestStorage_SearchArticles(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	categoryID := factory.CreateCategory(t, "Одежда", nil)
	colorID := factory.CreateFeature(t, "Цвет", categoryID)

	priceAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	redShirt := factory.CreateArticle(t, "Рубашка красная", categoryID, models.ArticleAvailable)
	factory.CreateArticlePrice(t, redShirt, 30, priceAt)
	factory.SetArticleFeature(t, redShirt, colorID, "красный")

	blueShirt := factory.CreateArticle(t, "Рубашка синяя", categoryID, models.ArticleAvailable)
	factory.CreateArticlePrice(t, blueShirt, 50, priceAt)
	factory.SetArticleFeature(t, blueShirt, colorID, "синий")

	hiddenShirt := factory.CreateArticle(t, "Рубашка скрытая", categoryID, models.ArticleHidden)
	factory.CreateArticlePrice(t, hiddenShirt, 10, priceAt)

	// У артикула с историей цен фильтр работает по текущей цене
	discounted := factory.CreateArticle(t, "Куртка", categoryID, models.ArticleAvailable)
	factory.CreateArticlePrice(t, discounted, 200, priceAt)
	factory.CreateArticlePrice(t, discounted, 80, priceAt.AddDate(0, 1, 0))

	price := func(v float64) *float64 { return &v }

	tests := []struct {
		name      string
		filter    models.ArticleSearchFilter
		wantNames []string
	}{
		{
			name:      "поиск по ключевому слову",
			filter:    models.ArticleSearchFilter{CategoryID: categoryID, Keywords: "красн"},
			wantNames: []string{"Рубашка красная"},
		},
		{
			name:      "скрытые артикулы не попадают в выдачу",
			filter:    models.ArticleSearchFilter{CategoryID: categoryID, Keywords: "Рубашка"},
			wantNames: []string{"Рубашка красная", "Рубашка синяя"},
		},
		{
			name:      "фильтр по диапазону текущей цены",
			filter:    models.ArticleSearchFilter{CategoryID: categoryID, PriceMin: price(40), PriceMax: price(100)},
			wantNames: []string{"Куртка", "Рубашка синяя"},
		},
		{
			name: "фильтр по значению характеристики",
			filter: models.ArticleSearchFilter{
				CategoryID: categoryID,
				Features:   []models.DummyFeatureValue{{FeatureID: colorID, Value: "синий"}},
			},
			wantNames: []string{"Рубашка синяя"},
		},
		{
			name: "сортировка по текущей цене по убыванию",
			filter: models.ArticleSearchFilter{
				CategoryID:     categoryID,
				OrderBy:        "price",
				OrderDirection: "desc",
			},
			wantNames: []string{"Куртка", "Рубашка синяя", "Рубашка красная"},
		},
		{
			name:      "пустая выдача для чужой категории",
			filter:    models.ArticleSearchFilter{CategoryID: 99999},
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := storage.SearchArticles(ctx, tt.filter)
			require.NoError(t, err)

			names := make([]string, 0, len(result))
			for _, a := range result {
				names = append(names, a.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestStorage_ListArticlesByCategory(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	categoryID := factory.CreateCategory(t, "Книги", nil)
	priceAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	visible := factory.CreateArticle(t, "Книга видимая", categoryID, models.ArticleVisible)
	factory.CreateArticlePrice(t, visible, 15, priceAt)
	hidden := factory.CreateArticle(t, "Книга скрытая", categoryID, models.ArticleHidden)
	factory.CreateArticlePrice(t, hidden, 15, priceAt)

	result, err := storage.ListArticlesByCategory(ctx, categoryID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Книга видимая", result[0].Name)
	require.Len(t, result[0].Prices, 1)
}
