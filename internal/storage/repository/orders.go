package repository

import (
	"context"
	"fmt"

	"github.com/dkovalevv/webshop/internal/models"
)

// CreateOrderFromCart оформляет заказ по корзине. Корзина после этого
// перестаёт быть активной: следующая GetActiveCart создаст новую.
func (s *Storage) CreateOrderFromCart(ctx context.Context, cartID int) (*models.Order, error) {
	const op = "storage.CreateOrderFromCart"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var order models.Order
	query := `INSERT INTO orders (cart_id, status)
			  VALUES ($1, $2)
			  RETURNING id, cart_id, created_at, status`
	err := s.DB.QueryRowContext(ctx, query, cartID, models.OrderPending).
		Scan(&order.ID, &order.CartID, &order.CreatedAt, &order.Status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &order, nil
}

// ReadOrder возвращает заказ вместе с корзиной и её позициями.
func (s *Storage) ReadOrder(ctx context.Context, id int) (*models.Order, error) {
	const op = "storage.ReadOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT o.id, o.cart_id, o.created_at, o.status,
			      c.id, c.user_uid, c.created_at
			  FROM orders o
			  JOIN carts c ON c.id = o.cart_id
			  WHERE o.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var order models.Order
	var cart models.Cart
	err := row.Scan(&order.ID, &order.CartID, &order.CreatedAt, &order.Status,
		&cart.ID, &cart.UserUID, &cart.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.hydrateCart(ctx, &cart); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	order.Cart = &cart
	return &order, nil
}

// ListOrders возвращает все заказы магазина, новые первыми.
func (s *Storage) ListOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT o.id, o.cart_id, o.created_at, o.status,
			      c.id, c.user_uid, c.created_at
			  FROM orders o
			  JOIN carts c ON c.id = o.cart_id
			  ORDER BY o.created_at DESC, o.id DESC`
	result, err := s.queryOrders(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListOrdersByUser возвращает заказы пользователя, новые первыми.
func (s *Storage) ListOrdersByUser(ctx context.Context, userUID string) ([]*models.Order, error) {
	const op = "storage.ListOrdersByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT o.id, o.cart_id, o.created_at, o.status,
			      c.id, c.user_uid, c.created_at
			  FROM orders o
			  JOIN carts c ON c.id = o.cart_id
			  WHERE c.user_uid = $1
			  ORDER BY o.created_at DESC, o.id DESC`
	result, err := s.queryOrders(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateOrderStatus записывает новый статус заказа.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) (int, error) {
	const op = "storage.UpdateOrderStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders SET status = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func (s *Storage) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		var order models.Order
		var cart models.Cart
		if err := rows.Scan(&order.ID, &order.CartID, &order.CreatedAt, &order.Status,
			&cart.ID, &cart.UserUID, &cart.CreatedAt); err != nil {
			return nil, err
		}
		order.Cart = &cart
		result = append(result, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range result {
		if err := s.hydrateCart(ctx, order.Cart); err != nil {
			return nil, err
		}
	}
	return result, nil
}
