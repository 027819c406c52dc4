package repository

import (
	"context"
	"errors"

	"storeorders/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	// 楽観ロックの競合（他の更新が先に入った）
	ErrConflict = errors.New("conflict")
	// 一意制約違反
	ErrDuplicate = errors.New("duplicate")
)

// 商品の取得だけを約束（商品管理は別サービス）。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
}
