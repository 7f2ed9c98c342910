package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalevv/webshop/internal/models"
)

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.RegisterUser(ctx, models.User{
		Username:     "newuser",
		Email:        "new@example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	user, err := storage.GetUserByUsername(ctx, "newuser")
	require.NoError(t, err)
	assert.Equal(t, uid, user.UID)
	assert.Equal(t, models.RoleUser, user.Role)

	t.Run("дубликат username отклоняется", func(t *testing.T) {
		_, err := storage.RegisterUser(ctx, models.User{
			Username:     "newuser",
			Email:        "another@example.com",
			PasswordHash: "hashedpassword",
			Role:         models.RoleUser,
		})
		require.Error(t, err)
	})

	t.Run("администратор создается миграцией", func(t *testing.T) {
		admin, err := storage.GetUserByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdministrator, admin.Role)
	})

	t.Run("несуществующий пользователь", func(t *testing.T) {
		_, err := storage.GetUserByUsername(ctx, "ghost")
		require.Error(t, err)
	})
}

func TestStorage_Categories(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	rootID, err := storage.CreateCategory(ctx, models.DummyCategory{Name: "Электроника"})
	require.NoError(t, err)

	childID, err := storage.CreateCategory(ctx, models.DummyCategory{Name: "Ноутбуки", ParentID: &rootID})
	require.NoError(t, err)

	t.Run("чтение категории с подкатегориями", func(t *testing.T) {
		category, err := storage.ReadCategory(ctx, rootID)
		require.NoError(t, err)
		assert.Equal(t, "Электроника", category.Name)
		assert.Nil(t, category.ParentID)
		require.Len(t, category.Subcategories, 1)
		assert.Equal(t, childID, category.Subcategories[0].ID)
	})

	t.Run("корневой список не содержит подкатегорий", func(t *testing.T) {
		roots, err := storage.ListRootCategories(ctx)
		require.NoError(t, err)
		require.Len(t, roots, 1)
		assert.Equal(t, rootID, roots[0].ID)
	})

	t.Run("обновление категории", func(t *testing.T) {
		count, err := storage.UpdateCategory(ctx, models.DummyCategory{Name: "Техника"}, rootID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		category, err := storage.ReadCategory(ctx, rootID)
		require.NoError(t, err)
		assert.Equal(t, "Техника", category.Name)
	})

	t.Run("обновление несуществующей категории", func(t *testing.T) {
		count, err := storage.UpdateCategory(ctx, models.DummyCategory{Name: "Нет такой"}, 99999)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestStorage_Features(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	categoryID, err := storage.CreateCategory(ctx, models.DummyCategory{Name: "Одежда"})
	require.NoError(t, err)

	featureID, err := storage.CreateFeature(ctx, models.DummyFeature{Name: "Размер", CategoryID: categoryID})
	require.NoError(t, err)

	count, err := storage.UpdateFeature(ctx, models.DummyFeature{Name: "Размер одежды", CategoryID: categoryID}, featureID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	features, err := storage.ListFeaturesByCategory(ctx, categoryID)
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "Размер одежды", features[0].Name)
}
