// Package models содержит доменные структуры интернет-магазина:
// пользователей, категории, артикулы с историей цен, корзины и заказы,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя магазина.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	Email        string    // Электронная почта
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, administrator или user
	CreatedAt    time.Time // Дата регистрации
}

// Роли пользователей системы.
const (
	RoleUser          = "user"
	RoleAdministrator = "administrator"
)
