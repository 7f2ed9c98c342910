package models

import "time"

// OrderStatus статус жизненного цикла заказа.
type OrderStatus string

// Возможные статусы заказа.
const (
	OrderPending  OrderStatus = "pending"
	OrderAccepted OrderStatus = "accepted"
	OrderRejected OrderStatus = "rejected"
	OrderShipped  OrderStatus = "shipped"
)

// Valid сообщает, известен ли статус системе.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderAccepted, OrderRejected, OrderShipped:
		return true
	}
	return false
}

// Order неизменяемый снимок корзины на момент оформления плюс изменяемый
// статус. Содержимое заказа — это содержимое его корзины; суммы считаются
// по ценам, действовавшим на момент создания корзины.
type Order struct {
	ID        int         `json:"orderId"`
	CartID    int         `json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
	Status    OrderStatus `json:"status"`
	Cart      *Cart       `json:"cart,omitempty"`
}

// DummyOrderStatus используется для приёма запроса смены статуса заказа.
type DummyOrderStatus struct {
	NewStatus string `json:"newStatus" validate:"required,oneof=pending accepted rejected shipped"`
}
