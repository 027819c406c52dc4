package model

import "time"

// 在庫の増減履歴（注文で減った分・キャンセルで戻した分）
type InventoryAdjustment struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`

	//0はチェックアウト（顧客操作）
	ActorUserID int64     `gorm:"not null;default:0" json:"actor_user_id"`
	Delta       int64     `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

const (
	AdjustmentReasonOrderPlaced    = "order_placed"
	AdjustmentReasonOrderCancelled = "order_cancelled"
)
