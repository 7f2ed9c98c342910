// Package pricing восстанавливает цену артикула, действовавшую в заданный
// момент, и считает суммы корзин и заказов по этим историческим ценам.
package pricing

import (
	"math"
	"time"

	"github.com/dkovalevv/webshop/internal/models"
)

// PriceAt возвращает цену из истории history, действовавшую на момент ref.
// История упорядочена по возрастанию CreatedAt; берётся последняя запись,
// созданная строго раньше ref. Если таких записей нет — в том числе когда
// ref раньше самой первой записи — возвращается первая запись: это
// документированный фолбэк, а не ошибка. Для пустой истории возвращается 0,
// но на уровне домена артикул без цен не существует.
func PriceAt(history []models.ArticlePrice, ref time.Time) float64 {
	if len(history) == 0 {
		return 0
	}

	price := history[0].Price
	for _, ap := range history {
		if !ap.CreatedAt.Before(ref) {
			break
		}
		price = ap.Price
	}
	return price
}

// Total считает сумму позиций lines по ценам, действовавшим на момент ref.
// Пустой список даёт 0; входные данные не изменяются. Накопление идёт без
// округления, к копейкам сумма приводится только на границе вывода.
func Total(lines []models.CartLine, ref time.Time) float64 {
	var sum float64
	for _, line := range lines {
		if line.Article == nil {
			continue
		}
		sum += PriceAt(line.Article.Prices, ref) * float64(line.Quantity)
	}
	return sum
}

// Round приводит денежную сумму к двум знакам. Используется строго на границе
// вывода или сохранения итога, не внутри накопления.
func Round(sum float64) float64 {
	return math.Round(sum*100) / 100
}
