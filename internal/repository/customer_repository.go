package repository

import (
	"context"

	"storeorders/internal/domain/model"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	FindByPhone(ctx context.Context, phone string) (model.Customer, error)

	// 電話番号が同じなら更新、無ければ作成（IDを埋めて返す）
	UpsertByPhone(ctx context.Context, c *model.Customer) error
}
