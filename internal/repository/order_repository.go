package repository

import (
	"context"
	"time"

	"storeorders/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
	CustomerID    *int64
	From          *time.Time
	To            *time.Time
}

// ステータス更新の内容
type OrderStatusChange struct {
	Status         model.OrderStatus
	TrackingNumber string
	UpdatedAt      time.Time
}

// 支払い更新の内容
type OrderPaymentChange struct {
	PaymentStatus model.PaymentStatus
	TransactionID string
	PaidAt        *time.Time
	UpdatedAt     time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order *model.Order) error

	// expectedVersion と一致する時だけ更新し version を+1する。
	// 一致しなければ ErrConflict、注文が無ければ ErrNotFound。
	UpdateStatus(ctx context.Context, orderID int64, expectedVersion int64, ch OrderStatusChange) error
	UpdatePayment(ctx context.Context, orderID int64, expectedVersion int64, ch OrderPaymentChange) error

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, key string) (model.Order, bool, error)
	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	//顧客の全注文（集計用）
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error)
}
