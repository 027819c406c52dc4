package model

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// 遷移表（並びは管理画面の表示順）
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {OrderStatusCompleted, OrderStatusRefunded},
	OrderStatusCompleted:  {OrderStatusRefunded},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

// InvalidTransitionError は許可されていないステータス変更。
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// ParseOrderStatus は大文字小文字を無視して読む
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := orderTransitions[st]
	return st, ok
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal は CANCELLED / REFUNDED（これ以上遷移しない）
func (s OrderStatus) IsTerminal() bool {
	next, ok := orderTransitions[s]
	return ok && len(next) == 0
}

// AllowedTransitions は s から遷移できる先
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	next := orderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, n := range orderTransitions[s] {
		if n == to {
			return true
		}
	}
	return false
}

// ValidateTransition は不可なら *InvalidTransitionError
func ValidateTransition(from OrderStatus, to OrderStatus) error {
	if !from.CanTransitionTo(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// RequiresTrackingNumber は追跡番号が必須の遷移先
func (s OrderStatus) RequiresTrackingNumber() bool {
	return s == OrderStatusShipped
}

// AcceptsTrackingNumber は出荷以降（追跡番号を受け付ける）
func (s OrderStatus) AcceptsTrackingNumber() bool {
	switch s {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusCompleted:
		return true
	}
	return false
}

// NotifiesCustomer は顧客へ通知が必要な遷移先
func (s OrderStatus) NotifiesCustomer() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// RestocksOnCancel は出荷前のキャンセルで在庫を戻す
func (s OrderStatus) RestocksOnCancel() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

// CountsTowardSpend は顧客の購入額に含めるか
func (s OrderStatus) CountsTowardSpend() bool {
	return s != OrderStatusCancelled && s != OrderStatusRefunded
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusPaid       PaymentStatus = "PAID"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	ps := PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch ps {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return ps, true
	}
	return "", false
}
