// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки пары токенов доступа
// и обновления; MakerImpl — конкретная реализация с секретным ключом
// и раздельными сроками жизни access и refresh токенов.
package jwt

import (
	"time"
)

// Типы токенов, различаемые по claim token_type.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Maker описывает интерфейс для генерации и парсинга токенов.
type Maker interface {
	// GenerateToken создаёт access-токен для пользователя с указанной ролью.
	GenerateToken(username, role, userUID string) (string, error)
	// GenerateRefreshToken создаёт refresh-токен с увеличенным сроком жизни.
	GenerateRefreshToken(username, role, userUID string) (string, error)
	// ParseToken возвращает *CustomClaims с username, role и типом токена.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токенов.
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов.
	tokenTTL   time.Duration // Время жизни access-токена.
	refreshTTL time.Duration // Время жизни refresh-токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, tokenTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
	}
}
