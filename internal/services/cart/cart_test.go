package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dkovalevv/webshop/internal/models"
)

type CartRepoMock struct {
	mock.Mock
}

func (m *CartRepoMock) GetActiveCart(ctx context.Context, userUID string) (*models.Cart, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartRepoMock) SetCartQuantity(ctx context.Context, cartID, articleID, quantity int) (int, error) {
	args := m.Called(ctx, cartID, articleID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *CartRepoMock) CreateOrderFromCart(ctx context.Context, cartID int) (*models.Order, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *CartRepoMock) ReadOrder(ctx context.Context, id int) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testCart(createdAt time.Time) *models.Cart {
	return &models.Cart{
		ID:        5,
		UserUID:   "uid-1",
		CreatedAt: createdAt,
		Lines: []models.CartLine{
			{
				ArticleID: 10,
				Quantity:  2,
				Article: &models.Article{
					ID: 10,
					Prices: []models.ArticlePrice{
						{Price: 10, CreatedAt: createdAt.AddDate(0, -2, 0)},
						{Price: 12, CreatedAt: createdAt.AddDate(0, 1, 0)},
					},
				},
			},
			{
				ArticleID: 20,
				Quantity:  1,
				Article: &models.Article{
					ID: 20,
					Prices: []models.ArticlePrice{
						{Price: 5, CreatedAt: createdAt.AddDate(0, -1, 0)},
					},
				},
			},
		},
	}
}

func TestCartService_GetCart(t *testing.T) {
	createdAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	cart := testCart(createdAt)

	repo := new(CartRepoMock)
	repo.On("GetActiveCart", mock.Anything, "uid-1").Return(cart, nil)

	svc := NewCartService(repo, discardLogger())
	view, err := svc.GetCart(context.Background(), "uid-1")

	require.NoError(t, err)
	assert.Equal(t, 5, view.Cart.ID)
	// 2*10 + 1*5 по ценам на момент создания корзины
	assert.InDelta(t, 25.0, view.Total, 0.001)
	repo.AssertExpectations(t)
}

func TestCartService_SetQuantity(t *testing.T) {
	createdAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		patch   models.DummyCartPatch
		repoErr error
		wantErr bool
	}{
		{
			name:  "установка количества возвращает корзину с сервера",
			patch: models.DummyCartPatch{ArticleID: 10, Quantity: 3},
		},
		{
			name:  "ноль удаляет позицию",
			patch: models.DummyCartPatch{ArticleID: 10, Quantity: 0},
		},
		{
			name:    "ошибка хранилища прокидывается наверх",
			patch:   models.DummyCartPatch{ArticleID: 10, Quantity: 3},
			repoErr: errors.New("db down"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := testCart(createdAt)
			repo := new(CartRepoMock)
			repo.On("GetActiveCart", mock.Anything, "uid-1").Return(cart, nil)
			repo.On("SetCartQuantity", mock.Anything, 5, tt.patch.ArticleID, tt.patch.Quantity).
				Return(1, tt.repoErr)

			svc := NewCartService(repo, discardLogger())
			view, err := svc.SetQuantity(context.Background(), "uid-1", tt.patch)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, view.Cart)
			repo.AssertExpectations(t)
		})
	}
}

func TestCartService_MakeOrder(t *testing.T) {
	createdAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("успешное оформление делает корзину неактивной", func(t *testing.T) {
		cart := testCart(createdAt)
		repo := new(CartRepoMock)
		repo.On("GetActiveCart", mock.Anything, "uid-1").Return(cart, nil)
		repo.On("CreateOrderFromCart", mock.Anything, 5).
			Return(&models.Order{ID: 1, CartID: 5, Status: models.OrderPending}, nil)

		svc := NewCartService(repo, discardLogger())
		order, err := svc.MakeOrder(context.Background(), "uid-1")

		require.NoError(t, err)
		assert.Equal(t, models.OrderPending, order.Status)
		assert.Equal(t, cart, order.Cart)
		repo.AssertExpectations(t)
	})

	t.Run("пустая корзина не оформляется", func(t *testing.T) {
		repo := new(CartRepoMock)
		repo.On("GetActiveCart", mock.Anything, "uid-1").
			Return(&models.Cart{ID: 5, UserUID: "uid-1", CreatedAt: createdAt}, nil)

		svc := NewCartService(repo, discardLogger())
		_, err := svc.MakeOrder(context.Background(), "uid-1")

		require.ErrorIs(t, err, ErrEmptyCart)
		repo.AssertNotCalled(t, "CreateOrderFromCart", mock.Anything, mock.Anything)
	})
}
