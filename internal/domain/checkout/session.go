package checkout

import (
	"time"

	"storeorders/internal/domain/cart"
)

// Session はチェックアウト中のカート。
// 送信成功か放棄（TTL切れ・明示削除）で消える。
type Session struct {
	ID        string     `json:"id"`
	Cart      *cart.Cart `json:"cart"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewSession(id string, now time.Time) Session {
	return Session{
		ID:        id,
		Cart:      cart.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
