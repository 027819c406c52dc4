package repository

import (
	"context"

	"storeorders/internal/domain/model"
)

// 注文明細。作成は注文と同じTxで一括。
type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	// 一覧画面用（注文IDごとにまとめて返す、明細なしの注文はキー無し）
	ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error)
}
