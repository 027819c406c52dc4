package pricing

import "fmt"

// 配送方法（固定カタログ）
type ShippingOption struct {
	Code     string `yaml:"code" json:"code"`
	Name     string `yaml:"name" json:"name"`
	Price    int64  `yaml:"price" json:"price"`
	Duration string `yaml:"duration" json:"duration"`
}

// 検証済みクーポン
type Coupon struct {
	Code           string `json:"code"`
	DiscountAmount int64  `json:"discount_amount"`
}

// Subtotaler は小計を出せるもの（cart.Cart）
type Subtotaler interface {
	Subtotal() int64
}

// 金額の内訳
type Totals struct {
	Subtotal     int64  `json:"subtotal"`
	Discount     int64  `json:"discount"`
	ShippingCost int64  `json:"shipping_cost"`
	Total        int64  `json:"total"`
	FreeShipping bool   `json:"free_shipping"`
	CouponCode   string `json:"coupon_code,omitempty"`
}

// ComputeTotals は小計・割引・送料・合計を出す。
//   - 送料無料判定は割引前の小計で行う
//   - freeShippingThreshold <= 0 は送料無料なし
//   - 割引は小計を超えない、合計は0未満にならない
func ComputeTotals(c Subtotaler, opt ShippingOption, coupon *Coupon, freeShippingThreshold int64) Totals {
	subtotal := c.Subtotal()

	var discount int64
	code := ""
	if coupon != nil {
		discount = coupon.DiscountAmount
		code = coupon.Code
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	free := freeShippingThreshold > 0 && subtotal >= freeShippingThreshold
	shipping := opt.Price
	if free {
		shipping = 0
	}

	total := subtotal - discount + shipping
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal:     subtotal,
		Discount:     discount,
		ShippingCost: shipping,
		Total:        total,
		FreeShipping: free,
		CouponCode:   code,
	}
}

// 最低注文金額に届かない
type MinimumOrderError struct {
	Minimum   int64
	Total     int64
	Shortfall int64
}

func (e *MinimumOrderError) Error() string {
	return fmt.Sprintf("minimum order %d not reached: total %d, short by %d", e.Minimum, e.Total, e.Shortfall)
}

// CheckMinimumOrder は total < minimum なら *MinimumOrderError を返す。
func CheckMinimumOrder(total int64, minimum int64) error {
	if minimum <= 0 || total >= minimum {
		return nil
	}
	return &MinimumOrderError{
		Minimum:   minimum,
		Total:     total,
		Shortfall: minimum - total,
	}
}
