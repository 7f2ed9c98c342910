package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает пользовательские данные, хранящиеся в токене.
type CustomClaims struct {
	Username             string `json:"username"`   // Имя пользователя
	Role                 string `json:"role"`       // Роль пользователя
	UserUID              string `json:"user_uid"`   // Идентификатор пользователя
	TokenType            string `json:"token_type"` // access или refresh
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// GenerateToken создаёт access-токен с заданными username, role и userUID,
// подписывая его секретным ключом. Время жизни определяется tokenTTL.
func (j *MakerImpl) GenerateToken(username, role, userUID string) (string, error) {
	return j.generate(username, role, userUID, TypeAccess, j.tokenTTL)
}

// GenerateRefreshToken создаёт refresh-токен. Отличается от access типом
// в claims и сроком жизни refreshTTL.
func (j *MakerImpl) GenerateRefreshToken(username, role, userUID string) (string, error) {
	return j.generate(username, role, userUID, TypeRefresh, j.refreshTTL)
}

func (j *MakerImpl) generate(username, role, userUID, tokenType string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		Username:  username,
		Role:      role,
		UserUID:   userUID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
