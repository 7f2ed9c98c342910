package models

import "time"

// Cart корзина пользователя. Активной считается корзина, по которой ещё
// не оформлен заказ; у пользователя в каждый момент не больше одной активной
// корзины. CreatedAt фиксирует момент создания и служит опорным временем
// для вычисления цен позиций.
type Cart struct {
	ID        int        `json:"cartId"`
	UserUID   string     `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	Lines     []CartLine `json:"cartArticles"`
}

// CartLine позиция корзины: артикул и количество. Количество всегда >= 1,
// строки с нулевым количеством не хранятся — ноль означает удаление позиции.
type CartLine struct {
	ArticleID int      `json:"articleId"`
	Quantity  int      `json:"quantity"`
	Article   *Article `json:"article,omitempty"`
}

// DummyCartPatch описывает одно изменение корзины: целевой артикул
// и новое количество. Ноль удаляет позицию.
type DummyCartPatch struct {
	ArticleID int `json:"articleId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"gte=0"`
}
