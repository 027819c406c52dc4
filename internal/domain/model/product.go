package model

import (
	"time"

	"gorm.io/gorm"
)

// 商品マスタ（編集は商品管理サービス側、ここでは読むだけ）
type Product struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU         string         `gorm:"type:varchar(64);uniqueIndex" json:"sku"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	Cost        int64          `gorm:"not null;default:0" json:"cost"`
	Stock       int64          `gorm:"not null" json:"stock"`
	IsActive    bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanFulfil は販売中で qty 個まで在庫があるか
func (p Product) CanFulfil(qty int64) bool {
	return p.IsActive && qty > 0 && qty <= p.Stock
}
