package repository

import (
	"context"

	"storeorders/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 増減の履歴を残す
	RecordAdjustment(ctx context.Context, adj *model.InventoryAdjustment) error
}
