package event

import (
	"time"

	"storeorders/internal/domain/model"
)

// イベント種別（Kafkaのトピック名、WebSocketのtypeにもそのまま使う）
const (
	TypeOrderCreated        = "order.created"
	TypeOrderStatusChanged  = "order.status_changed"
	TypeOrderPaymentChanged = "order.payment_changed"
)

// OrderEvent は注文の変化を外へ知らせる内容
type OrderEvent struct {
	Type           string              `json:"type"`
	OrderID        int64               `json:"order_id"`
	OrderNumber    string              `json:"order_number"`
	CustomerID     int64               `json:"customer_id"`
	CustomerPhone  string              `json:"customer_phone"`
	Status         model.OrderStatus   `json:"status"`
	PreviousStatus model.OrderStatus   `json:"previous_status,omitempty"`
	PaymentStatus  model.PaymentStatus `json:"payment_status"`
	Total          int64               `json:"total"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	//顧客への連絡が必要（キャンセル・返金）
	NotifyCustomer bool      `json:"notify_customer"`
	ActorUserID    int64     `json:"actor_user_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewOrderEvent(typ string, o model.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:           typ,
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		CustomerPhone:  o.CustomerPhone,
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		Total:          o.Total,
		TrackingNumber: o.TrackingNumber,
		OccurredAt:     at,
	}
}
