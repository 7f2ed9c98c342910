// Package services содержит логику бизнес-уровня для регистрации,
// входа, обновления токенов и выхода пользователей магазина.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkovalevv/webshop/internal/lib/jwt"
	"github.com/dkovalevv/webshop/internal/lib/password"
	"github.com/dkovalevv/webshop/internal/models"
	"github.com/dkovalevv/webshop/internal/session"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrSessionExpired возвращается, когда refresh-токен не совпадает
// с сохранённым в сессии или сессия отсутствует.
var ErrSessionExpired = errors.New("session expired")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionStore описывает хранилище сессий по парам (роль, пользователь).
type SessionStore interface {
	Save(ctx context.Context, role, username, accessToken, refreshToken string, identity map[string]any) error
	Get(ctx context.Context, role, username string) (*session.Session, error)
	Clear(ctx context.Context, role, username string) error
}

// TokenPair пара токенов, выдаваемая при входе и обновлении.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
	Username     string `json:"username"`
}

// AuthService отвечает за регистрацию, вход, обновление пары токенов и выход.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	sessions SessionStore
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, sessions SessionStore) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		sessions: sessions,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью "user".
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет пароль пользователя, генерирует пару токенов и сохраняет
// сессию роли. Сессии других ролей того же пользователя не затрагиваются.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*TokenPair, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user.Username, user.Role, user.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pair, nil
}

// Refresh обменивает refresh-токен на новую пару. Токен должен быть
// refresh-типа и совпадать с сохранённым в сессии, иначе ErrSessionExpired.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	const op = "services.auth.Refresh"

	claims, err := s.jwtMaker.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrSessionExpired
	}
	if claims.TokenType != jwt.TypeRefresh {
		return nil, ErrSessionExpired
	}

	sess, err := s.sessions.Get(ctx, claims.Role, claims.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sess == nil || sess.RefreshToken != refreshToken {
		return nil, ErrSessionExpired
	}

	pair, err := s.issueTokens(ctx, claims.Username, claims.Role, claims.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pair, nil
}

// Logout сбрасывает сессию роли пользователя. Повторный выход не ошибка.
func (s *AuthService) Logout(ctx context.Context, role, username string) error {
	const op = "services.auth.Logout"

	if err := s.sessions.Clear(ctx, role, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, username, role, userUID string) (*TokenPair, error) {
	accessToken, err := s.jwtMaker.GenerateToken(username, role, userUID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMaker.GenerateRefreshToken(username, role, userUID)
	if err != nil {
		return nil, err
	}

	identity := map[string]any{
		"username": username,
		"role":     role,
		"user_uid": userUID,
	}
	if err := s.sessions.Save(ctx, role, username, accessToken, refreshToken, identity); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Role:         role,
		Username:     username,
	}, nil
}
