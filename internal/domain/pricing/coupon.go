package pricing

import (
	"context"
	"errors"
	"strings"
	"time"
)

// 不明・期限切れ・条件未達のクーポン
var ErrCouponInvalid = errors.New("coupon invalid")

// CouponValidator はクーポンコードを検証して割引額を返す外部協力者。
type CouponValidator interface {
	Validate(ctx context.Context, code string, subtotal int64) (Coupon, error)
}

// クーポン定義（ストア設定のYAMLから読む）
type CouponRule struct {
	Code        string     `yaml:"code"`
	Percent     int64      `yaml:"percent"`
	Amount      int64      `yaml:"amount"`
	MinSubtotal int64      `yaml:"min_subtotal"`
	ExpiresAt   *time.Time `yaml:"expires_at"`
}

// Discount は小計に対する割引額。percent は小数点以下切り捨て。
func (r CouponRule) Discount(subtotal int64) int64 {
	var d int64
	if r.Percent > 0 {
		d = subtotal * r.Percent / 100
	}
	d += r.Amount
	if d > subtotal {
		d = subtotal
	}
	return d
}

// CouponBook は設定済みクーポンで検証する CouponValidator。
type CouponBook struct {
	rules map[string]CouponRule
	now   func() time.Time
}

func NewCouponBook(rules []CouponRule) *CouponBook {
	m := make(map[string]CouponRule, len(rules))
	for _, r := range rules {
		m[normalizeCode(r.Code)] = r
	}
	return &CouponBook{rules: m, now: time.Now}
}

// WithClock はテスト用に時刻を差し替える
func (b *CouponBook) WithClock(now func() time.Time) *CouponBook {
	b.now = now
	return b
}

func (b *CouponBook) Validate(ctx context.Context, code string, subtotal int64) (Coupon, error) {
	key := normalizeCode(code)
	r, ok := b.rules[key]
	if !ok || key == "" {
		return Coupon{}, ErrCouponInvalid
	}
	if r.ExpiresAt != nil && b.now().After(*r.ExpiresAt) {
		return Coupon{}, ErrCouponInvalid
	}
	if subtotal < r.MinSubtotal {
		return Coupon{}, ErrCouponInvalid
	}
	return Coupon{Code: key, DiscountAmount: r.Discount(subtotal)}, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
