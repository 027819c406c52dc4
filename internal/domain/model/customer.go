package model

import "time"

// ストアの顧客。電話番号（数字のみ）で一意。
type Customer struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone      string    `gorm:"type:varchar(30);not null;uniqueIndex" json:"phone"`
	Email      string    `gorm:"type:varchar(255)" json:"email"`
	Address    string    `gorm:"type:text" json:"address"`
	City       string    `gorm:"type:varchar(255)" json:"city"`
	PostalCode string    `gorm:"type:varchar(20)" json:"postal_code"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
