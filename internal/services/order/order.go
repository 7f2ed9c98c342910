// Package services содержит бизнес-логику заказов: списки, смена статуса
// по графу переходов и публикация событий о смене статуса.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkovalevv/webshop/internal/lib/pricing"
	"github.com/dkovalevv/webshop/internal/lib/rabbitmq"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	"github.com/dkovalevv/webshop/internal/models"
)

// ErrInvalidTransition возвращается при попытке недопустимой смены статуса.
var ErrInvalidTransition = errors.New("invalid status transition")

// OrderRepository определяет методы для работы с заказами в хранилище.
type OrderRepository interface {
	ReadOrder(ctx context.Context, id int) (*models.Order, error)
	ListOrders(ctx context.Context) ([]*models.Order, error)
	ListOrdersByUser(ctx context.Context, userUID string) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) (int, error)
}

// OrderView заказ вместе с итоговой суммой и допустимыми следующими
// статусами. Сумма считается по ценам на момент создания корзины заказа.
type OrderView struct {
	Order       *models.Order        `json:"order"`
	Total       float64              `json:"total"`
	AllowedNext []models.OrderStatus `json:"allowedNext"`
}

// Recorder учитывает смены статуса заказа в метриках.
type Recorder interface {
	RecordStatusChange(newStatus string)
}

// OrderService реализует бизнес-логику заказов.
type OrderService struct {
	repo      OrderRepository
	publisher rabbitmq.Publisher
	log       *slog.Logger
	metrics   Recorder
	now       func() time.Time
}

// WithMetrics подключает учёт смен статуса в метриках.
func (s *OrderService) WithMetrics(m Recorder) *OrderService {
	s.metrics = m
	return s
}

// NewOrderService создает новый экземпляр OrderService. publisher может быть
// nil, тогда события о смене статуса не публикуются.
func NewOrderService(repo OrderRepository, publisher rabbitmq.Publisher, log *slog.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// ReadOrder возвращает заказ с корзиной, суммой и допустимыми переходами.
func (s *OrderService) ReadOrder(ctx context.Context, id int) (*OrderView, error) {
	const op = "services.order.ReadOrder"

	order, err := s.repo.ReadOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.newView(order), nil
}

// ListOrders возвращает все заказы магазина — административный список.
func (s *OrderService) ListOrders(ctx context.Context) ([]*OrderView, error) {
	const op = "services.order.ListOrders"

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.newViews(orders), nil
}

// ListOrdersByUser возвращает заказы пользователя.
func (s *OrderService) ListOrdersByUser(ctx context.Context, userUID string) ([]*OrderView, error) {
	const op = "services.order.ListOrdersByUser"

	orders, err := s.repo.ListOrdersByUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.newViews(orders), nil
}

// ChangeStatus переводит заказ в newStatus, если переход допустим графом
// статусов и сроком возврата. Успешная смена публикует событие в RabbitMQ.
func (s *OrderService) ChangeStatus(ctx context.Context, id int, newStatus models.OrderStatus) (*OrderView, error) {
	const op = "services.order.ChangeStatus"

	order, err := s.repo.ReadOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !CanTransition(order, newStatus, s.now()) {
		return nil, ErrInvalidTransition
	}

	if _, err := s.repo.UpdateOrderStatus(ctx, id, newStatus); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	oldStatus := order.Status
	order.Status = newStatus
	if s.metrics != nil {
		s.metrics.RecordStatusChange(string(newStatus))
	}

	if s.publisher != nil {
		event := rabbitmq.OrderStatusEvent{
			OrderID:   order.ID,
			OldStatus: string(oldStatus),
			NewStatus: string(newStatus),
			ChangedAt: s.now().UTC(),
		}
		if err := rabbitmq.PublishMessage(s.publisher, rabbitmq.Exchange, "status", event); err != nil {
			s.log.Error("failed to publish order status event",
				slog.Int("order_id", order.ID), sl.Err(err))
		}
	}

	return s.newView(order), nil
}

func (s *OrderService) newView(order *models.Order) *OrderView {
	view := &OrderView{
		Order:       order,
		AllowedNext: AllowedNext(order, s.now()),
	}
	if order.Cart != nil {
		view.Total = pricing.Round(pricing.Total(order.Cart.Lines, order.Cart.CreatedAt))
	}
	return view
}

func (s *OrderService) newViews(orders []*models.Order) []*OrderView {
	result := make([]*OrderView, 0, len(orders))
	for _, order := range orders {
		result = append(result, s.newView(order))
	}
	return result
}
