package model

import "time"

// 注文時点の商品名・単価・原価を持つ（商品マスタが変わっても注文は変わらない）
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	ProductNameSnapshot string `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	Variant             string `gorm:"type:varchar(255)" json:"variant"`
	Notes               string `gorm:"type:text" json:"notes"`

	UnitPriceSnapshot int64 `gorm:"not null" json:"unit_price_snapshot"`
	UnitCostSnapshot  int64 `gorm:"not null;default:0" json:"unit_cost_snapshot"`
	Quantity          int64 `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (it OrderItem) LineTotal() int64 {
	return it.UnitPriceSnapshot * it.Quantity
}

func (it OrderItem) LineCost() int64 {
	return it.UnitCostSnapshot * it.Quantity
}
