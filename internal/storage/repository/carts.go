package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkovalevv/webshop/internal/models"
)

// GetActiveCart возвращает активную корзину пользователя — ту, по которой
// ещё не оформлен заказ. Если активной корзины нет, создаётся новая пустая.
func (s *Storage) GetActiveCart(ctx context.Context, userUID string) (*models.Cart, error) {
	const op = "storage.GetActiveCart"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var cart models.Cart
	query := `SELECT c.id, c.user_uid, c.created_at
			  FROM carts c
			  LEFT JOIN orders o ON o.cart_id = c.id
			  WHERE c.user_uid = $1 AND o.id IS NULL
			  ORDER BY c.created_at DESC
			  LIMIT 1`
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&cart.ID, &cart.UserUID, &cart.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s.createCart(ctx, userUID)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.hydrateCart(ctx, &cart); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cart, nil
}

func (s *Storage) createCart(ctx context.Context, userUID string) (*models.Cart, error) {
	const op = "storage.createCart"

	var cart models.Cart
	query := `INSERT INTO carts (user_uid)
			  VALUES ($1)
			  RETURNING id, user_uid, created_at`
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&cart.ID, &cart.UserUID, &cart.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cart.Lines = []models.CartLine{}
	return &cart, nil
}

// SetCartQuantity выставляет количество артикула в корзине. Положительное
// количество добавляет позицию или заменяет существующее значение,
// ноль удаляет позицию. Возвращает число затронутых строк.
func (s *Storage) SetCartQuantity(ctx context.Context, cartID, articleID, quantity int) (int, error) {
	const op = "storage.SetCartQuantity"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var result sql.Result
	var err error
	if quantity == 0 {
		result, err = s.DB.ExecContext(ctx,
			`DELETE FROM cart_articles WHERE cart_id = $1 AND article_id = $2`,
			cartID, articleID)
	} else {
		result, err = s.DB.ExecContext(ctx,
			`INSERT INTO cart_articles (cart_id, article_id, quantity)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (cart_id, article_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
			cartID, articleID, quantity)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// hydrateCart догружает позиции корзины вместе с артикулами и их историей цен.
func (s *Storage) hydrateCart(ctx context.Context, cart *models.Cart) error {
	query := `SELECT article_id, quantity
			  FROM cart_articles
			  WHERE cart_id = $1
			  ORDER BY article_id`
	rows, err := s.DB.QueryContext(ctx, query, cart.ID)
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()

	cart.Lines = []models.CartLine{}
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.ArticleID, &line.Quantity); err != nil {
			return err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range cart.Lines {
		article, err := s.ReadArticle(ctx, cart.Lines[i].ArticleID)
		if err != nil {
			return err
		}
		cart.Lines[i].Article = article
	}
	return nil
}
