// Package services содержит бизнес-логику корзины: чтение активной корзины,
// изменение количества позиций и оформление заказа.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dkovalevv/webshop/internal/lib/pricing"
	"github.com/dkovalevv/webshop/internal/models"
)

// ErrEmptyCart возвращается при попытке оформить заказ по пустой корзине.
var ErrEmptyCart = errors.New("cart is empty")

// CartRepository определяет методы для работы с корзинами в хранилище.
type CartRepository interface {
	// GetActiveCart возвращает активную корзину пользователя, создавая её при отсутствии.
	GetActiveCart(ctx context.Context, userUID string) (*models.Cart, error)
	// SetCartQuantity выставляет количество артикула; ноль удаляет позицию.
	SetCartQuantity(ctx context.Context, cartID, articleID, quantity int) (int, error)
	// CreateOrderFromCart оформляет заказ по корзине.
	CreateOrderFromCart(ctx context.Context, cartID int) (*models.Order, error)
	// ReadOrder возвращает заказ с корзиной.
	ReadOrder(ctx context.Context, id int) (*models.Order, error)
}

// CartView корзина вместе с итоговой суммой. Сумма считается по ценам,
// действовавшим на момент создания корзины, и округляется до копеек
// только в готовом итоге.
type CartView struct {
	Cart  *models.Cart `json:"cart"`
	Total float64      `json:"total"`
}

// Recorder учитывает оформленные заказы в метриках.
type Recorder interface {
	RecordOrderCreated()
}

// CartService реализует протокол изменения корзины: каждое изменение
// возвращает авторитетное состояние корзины с сервера, а не локальную копию.
type CartService struct {
	repo    CartRepository
	log     *slog.Logger
	metrics Recorder
}

// WithMetrics подключает учёт оформленных заказов в метриках.
func (s *CartService) WithMetrics(m Recorder) *CartService {
	s.metrics = m
	return s
}

// NewCartService создает новый экземпляр CartService.
func NewCartService(repo CartRepository, log *slog.Logger) *CartService {
	return &CartService{repo: repo, log: log}
}

// GetCart возвращает активную корзину пользователя с итоговой суммой.
func (s *CartService) GetCart(ctx context.Context, userUID string) (*CartView, error) {
	const op = "services.cart.GetCart"

	cart, err := s.repo.GetActiveCart(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newCartView(cart), nil
}

// SetQuantity выставляет количество артикула в активной корзине пользователя.
// Количество ноль удаляет позицию; удаление отсутствующей позиции не ошибка.
// Возвращается обновлённая корзина целиком.
func (s *CartService) SetQuantity(ctx context.Context, userUID string, patch models.DummyCartPatch) (*CartView, error) {
	const op = "services.cart.SetQuantity"

	cart, err := s.repo.GetActiveCart(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.SetCartQuantity(ctx, cart.ID, patch.ArticleID, patch.Quantity); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cart, err = s.repo.GetActiveCart(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newCartView(cart), nil
}

// MakeOrder оформляет заказ по активной корзине. Пустая корзина — ошибка
// ErrEmptyCart. После оформления корзина перестаёт быть активной.
func (s *CartService) MakeOrder(ctx context.Context, userUID string) (*models.Order, error) {
	const op = "services.cart.MakeOrder"

	cart, err := s.repo.GetActiveCart(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	order, err := s.repo.CreateOrderFromCart(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order.Cart = cart
	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	return order, nil
}

func newCartView(cart *models.Cart) *CartView {
	return &CartView{
		Cart:  cart,
		Total: pricing.Round(pricing.Total(cart.Lines, cart.CreatedAt)),
	}
}
