package repository

import (
	"context"

	"storeorders/internal/domain/model"
	repo "storeorders/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす（条件付きUPDATE 1本なので同時注文でもマイナスにならない）
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	n, err := r.shiftStock(ctx, productID, -qty, "stock >= ?", qty)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// キャンセル時の在庫戻し。商品が消えていれば ErrNotFound。
func (r *InventoryGormRepository) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	n, err := r.shiftStock(ctx, productID, qty, "")
	if err != nil {
		return err
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InventoryGormRepository) RecordAdjustment(ctx context.Context, adj *model.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Create(adj).Error
}

func (r *InventoryGormRepository) shiftStock(ctx context.Context, productID int64, delta int64, guard string, args ...interface{}) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", productID)
	if guard != "" {
		q = q.Where(guard, args...)
	}
	res := q.Update("stock", gorm.Expr("stock + ?", delta))
	return res.RowsAffected, res.Error
}
