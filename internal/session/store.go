// Package session хранит состояние аутентификации по парам (роль, пользователь):
// access-токен, refresh-токен и полезную нагрузку identity. Сессии разных ролей
// независимы: у одного браузера могут одновременно жить сессии user
// и administrator, и сброс одной не трогает другую.
package session

import (
	"context"
	"fmt"
	"time"
)

// AnonymousHeader значение заголовка Authorization без сохранённой сессии.
// Сервер трактует его как неаутентифицированный запрос и отвечает статусом login.
const AnonymousHeader = "Bearer "

// Session сохранённое состояние аутентификации одной роли.
type Session struct {
	Role         string         `json:"role"`
	Username     string         `json:"username"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Identity     map[string]any `json:"identity"`
}

// Cache описывает персистентное key-value хранилище сессий.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Store управляет жизненным циклом сессий: сохранение при входе,
// чтение перед каждым аутентифицированным вызовом, сброс при выходе.
type Store struct {
	cache Cache
	ttl   time.Duration
}

// NewStore создаёт Store поверх cache. ttl ограничивает жизнь сессии
// сроком жизни refresh-токена.
func NewStore(cache Cache, ttl time.Duration) *Store {
	return &Store{cache: cache, ttl: ttl}
}

func sessionKey(role, username string) string {
	return fmt.Sprintf("session:%s:%s", role, username)
}

// Save сохраняет все три значения сессии для пары (role, username),
// перезаписывая прежнюю сессию этой роли.
func (s *Store) Save(ctx context.Context, role, username, accessToken, refreshToken string, identity map[string]any) error {
	const op = "session.Save"
	sess := Session{
		Role:         role,
		Username:     username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Identity:     identity,
	}
	if err := s.cache.Set(ctx, sessionKey(role, username), sess, s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get возвращает сессию роли role пользователя username, либо nil без ошибки,
// если сессия не сохранена.
func (s *Store) Get(ctx context.Context, role, username string) (*Session, error) {
	const op = "session.Get"
	var sess Session
	found, err := s.cache.Get(ctx, sessionKey(role, username), &sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, nil
	}
	return &sess, nil
}

// AuthHeader строит значение заголовка Authorization из сохранённого
// access-токена. Без сохранённой сессии возвращается анонимная форма,
// на которую сервер ответит статусом login.
func (s *Store) AuthHeader(ctx context.Context, role, username string) (string, error) {
	sess, err := s.Get(ctx, role, username)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return AnonymousHeader, nil
	}
	return "Bearer " + sess.AccessToken, nil
}

// Clear удаляет сессию роли role пользователя username. Идемпотентна:
// повторный сброс несуществующей сессии не ошибка.
func (s *Store) Clear(ctx context.Context, role, username string) error {
	const op = "session.Clear"
	if err := s.cache.Invalidate(ctx, sessionKey(role, username)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
