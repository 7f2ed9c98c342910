package services

import (
	"time"

	"github.com/dkovalevv/webshop/internal/models"
)

// RevertWindow срок, в течение которого отклонённый или отправленный заказ
// ещё можно вернуть в pending. После истечения срока эти статусы становятся
// терминальными. Возврат принятого заказа сроком не ограничен.
const RevertWindow = 7 * 24 * time.Hour

// transitions описывает граф смены статусов. Возвраты в pending из
// shipped и rejected дополнительно ограничены сроком RevertWindow
// от создания заказа.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:  {models.OrderAccepted, models.OrderRejected},
	models.OrderAccepted: {models.OrderShipped, models.OrderPending},
	models.OrderRejected: {models.OrderPending},
	models.OrderShipped:  {models.OrderPending},
}

// AllowedNext возвращает статусы, в которые заказ можно перевести
// в момент now. Возврат в pending из shipped и rejected допускается
// только пока заказ моложе RevertWindow; из accepted — всегда.
func AllowedNext(order *models.Order, now time.Time) []models.OrderStatus {
	withinWindow := now.Sub(order.CreatedAt) < RevertWindow
	revertGated := order.Status == models.OrderShipped || order.Status == models.OrderRejected

	var result []models.OrderStatus
	for _, next := range transitions[order.Status] {
		if next == models.OrderPending && revertGated && !withinWindow {
			continue
		}
		result = append(result, next)
	}
	return result
}

// CanTransition сообщает, допустим ли переход заказа в newStatus в момент now.
func CanTransition(order *models.Order, newStatus models.OrderStatus, now time.Time) bool {
	for _, next := range AllowedNext(order, now) {
		if next == newStatus {
			return true
		}
	}
	return false
}
