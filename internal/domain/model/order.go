package model

import "time"

// 注文を受けた経路
const (
	OrderSourceWhatsApp = "whatsapp"
	OrderSourceManual   = "manual"
)

// Order は顧客情報のスナップショットを持つ。
// Version は楽観ロック用（更新ごとに+1）。
type Order struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string `gorm:"type:varchar(40);not null;uniqueIndex" json:"order_number"`
	CustomerID  int64  `gorm:"not null;index" json:"customer_id"`

	//注文時点の顧客情報
	CustomerName       string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone      string `gorm:"type:varchar(30);not null" json:"customer_phone"`
	CustomerEmail      string `gorm:"type:varchar(255)" json:"customer_email"`
	ShippingAddress    string `gorm:"type:text;not null" json:"shipping_address"`
	ShippingCity       string `gorm:"type:varchar(255)" json:"shipping_city"`
	ShippingPostalCode string `gorm:"type:varchar(20)" json:"shipping_postal_code"`
	CustomerNotes      string `gorm:"type:text" json:"customer_notes"`

	Subtotal    int64 `gorm:"not null" json:"subtotal"`
	Shipping    int64 `gorm:"not null" json:"shipping"`
	Tax         int64 `gorm:"not null;default:0" json:"tax"`
	Discount    int64 `gorm:"not null;default:0" json:"discount"`
	Total       int64 `gorm:"not null" json:"total"`
	TotalCost   int64 `gorm:"not null;default:0" json:"total_cost"`
	TotalProfit int64 `gorm:"not null;default:0" json:"total_profit"`

	CouponCode     string `gorm:"type:varchar(50)" json:"coupon_code"`
	ShippingMethod string `gorm:"type:varchar(100);not null" json:"shipping_method"`

	Status         OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	PaymentMethod  string        `gorm:"type:varchar(50);not null" json:"payment_method"`
	Source         string        `gorm:"type:varchar(30);not null" json:"source"`
	TrackingNumber string        `gorm:"type:varchar(100)" json:"tracking_number"`
	TransactionID  string        `gorm:"type:varchar(100)" json:"transaction_id"`
	PaidAt         *time.Time    `json:"paid_at"`

	//チェックアウトセッションID（同じセッションの二重送信防止）
	IdempotencyKey string `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`

	Version   int64     `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
