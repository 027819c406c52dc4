package checkout

import (
	"fmt"
	"strings"

	"storeorders/internal/domain/cart"
	"storeorders/internal/domain/money"
	"storeorders/internal/domain/pricing"
)

// メッセージに載せる内容
type MessageInput struct {
	StoreName     string
	OrderNumber   string
	Customer      CustomerInfo
	Items         []cart.LineItem
	Totals        pricing.Totals
	Shipping      pricing.ShippingOption
	PaymentMethod string
}

// Composer はチェックアウト内容をWhatsApp向けのテキストにする。
// 同じ入力なら同じ文字列になる。
type Composer struct {
	formatter *money.Formatter
}

func NewComposer(f *money.Formatter) *Composer {
	if f == nil {
		f = money.NewFormatter("id-ID", "Rp")
	}
	return &Composer{formatter: f}
}

func (c *Composer) Compose(in MessageInput) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\n")
	}

	//ヘッダー
	line("*New Order - %s*", in.StoreName)
	if in.OrderNumber != "" {
		line("Order: %s", in.OrderNumber)
	}
	b.WriteString("\n")

	//顧客
	cu := in.Customer.Trimmed()
	line("*Customer*")
	line("Name: %s", cu.Name)
	line("Phone: %s", cu.Phone)
	if cu.Email != "" {
		line("Email: %s", cu.Email)
	}
	line("Address: %s", formatAddress(cu))
	if cu.Notes != "" {
		line("Notes: %s", cu.Notes)
	}
	b.WriteString("\n")

	//明細
	line("*Items*")
	for i, it := range in.Items {
		name := it.Name
		if it.Variant != "" {
			name += " (" + it.Variant + ")"
		}
		line("%d. %s", i+1, name)
		line("   %d x %s = %s", it.Quantity, c.formatter.Format(it.UnitPrice), c.formatter.Format(it.LineTotal()))
		if it.Notes != "" {
			line("   Note: %s", it.Notes)
		}
	}
	b.WriteString("\n")

	//合計
	t := in.Totals
	line("*Summary*")
	line("Subtotal: %s", c.formatter.Format(t.Subtotal))
	if t.Discount > 0 {
		if t.CouponCode != "" {
			line("Discount (%s): -%s", t.CouponCode, c.formatter.Format(t.Discount))
		} else {
			line("Discount: -%s", c.formatter.Format(t.Discount))
		}
	}
	if t.ShippingCost == 0 {
		line("Shipping: FREE")
	} else {
		line("Shipping: %s", c.formatter.Format(t.ShippingCost))
	}
	line("*Total: %s*", c.formatter.Format(t.Total))
	b.WriteString("\n")

	//フッター
	shipping := in.Shipping.Name
	if in.Shipping.Duration != "" {
		shipping += " (" + in.Shipping.Duration + ")"
	}
	line("Shipping method: %s", shipping)
	b.WriteString("Payment method: " + in.PaymentMethod)

	return b.String()
}

func formatAddress(cu CustomerInfo) string {
	parts := []string{cu.Address}
	cityLine := strings.TrimSpace(cu.City + " " + cu.PostalCode)
	if cityLine != "" {
		parts = append(parts, cityLine)
	}
	return strings.Join(parts, ", ")
}
