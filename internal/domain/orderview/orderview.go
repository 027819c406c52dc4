package orderview

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"storeorders/internal/domain/model"
)

// 顧客ブロック（注文時スナップショット + 顧客ID）。
// Phone/Email は注文時のまま。顧客マスタ側が変わっていれば Current* に出す。
type CustomerView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	CurrentPhone string `json:"current_phone,omitempty"`
	CurrentEmail string `json:"current_email,omitempty"`
	Address      string `json:"address"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type ItemView struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Variant   string `json:"variant,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// 金額内訳（明細から計算し直したもの）
type Breakdown struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Shipping int64 `json:"shipping"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Detail は管理画面・エクスポート用の注文詳細。
type Detail struct {
	ID                 int64               `json:"id"`
	OrderNumber        string              `json:"order_number"`
	Status             model.OrderStatus   `json:"status"`
	AllowedTransitions []model.OrderStatus `json:"allowed_transitions"`
	PaymentStatus      model.PaymentStatus `json:"payment_status"`
	PaymentMethod      string              `json:"payment_method"`
	ShippingMethod     string              `json:"shipping_method"`
	CouponCode         string              `json:"coupon_code,omitempty"`
	Source             string              `json:"source"`
	TrackingNumber     string              `json:"tracking_number,omitempty"`
	TransactionID      string              `json:"transaction_id,omitempty"`
	PaidAt             *time.Time          `json:"paid_at,omitempty"`
	Customer           CustomerView        `json:"customer"`
	Items              []ItemView          `json:"items"`
	Pricing            Breakdown           `json:"pricing"`
	TotalCost          int64               `json:"total_cost"`
	TotalProfit        int64               `json:"total_profit"`
	// 保存済み小計と明細の再計算が一致しない
	SubtotalMismatch bool      `json:"subtotal_mismatch"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Build は注文・明細・顧客（任意）から詳細を組み立てる。
// 明細小計は保存値を信用せず price * quantity で出し直す。
// customer が nil なら注文のスナップショットを使う。
func Build(o model.Order, items []model.OrderItem, customer *model.Customer) Detail {
	views := make([]ItemView, 0, len(items))
	var subtotal int64
	for _, it := range items {
		line := it.LineTotal()
		subtotal += line
		views = append(views, ItemView{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Variant:   it.Variant,
			Notes:     it.Notes,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			Subtotal:  line,
		})
	}

	total := subtotal - o.Discount + o.Shipping + o.Tax
	if total < 0 {
		total = 0
	}

	cv := CustomerView{
		ID:         o.CustomerID,
		Name:       o.CustomerName,
		Phone:      o.CustomerPhone,
		Email:      o.CustomerEmail,
		Address:    o.ShippingAddress,
		City:       o.ShippingCity,
		PostalCode: o.ShippingPostalCode,
		Notes:      o.CustomerNotes,
	}
	//スナップショットは書き換えない
	if customer != nil {
		cv.ID = customer.ID
		if customer.Email != "" && customer.Email != cv.Email {
			cv.CurrentEmail = customer.Email
		}
		if customer.Phone != "" && customer.Phone != cv.Phone {
			cv.CurrentPhone = customer.Phone
		}
	}

	return Detail{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		Status:             o.Status,
		AllowedTransitions: o.Status.AllowedTransitions(),
		PaymentStatus:      o.PaymentStatus,
		PaymentMethod:      o.PaymentMethod,
		ShippingMethod:     o.ShippingMethod,
		CouponCode:         o.CouponCode,
		Source:             o.Source,
		TrackingNumber:     o.TrackingNumber,
		TransactionID:      o.TransactionID,
		PaidAt:             o.PaidAt,
		Customer:           cv,
		Items:              views,
		Pricing: Breakdown{
			Subtotal: subtotal,
			Discount: o.Discount,
			Shipping: o.Shipping,
			Tax:      o.Tax,
			Total:    total,
		},
		TotalCost:        o.TotalCost,
		TotalProfit:      o.TotalProfit,
		SubtotalMismatch: subtotal != o.Subtotal,
		Version:          o.Version,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

var csvHeader = []string{
	"order_number", "created_at", "status", "payment_status", "customer_name", "customer_phone",
	"product_id", "item", "variant", "price", "quantity", "item_subtotal",
	"order_subtotal", "discount", "shipping", "tax", "total",
}

// WriteCSV は明細1行ごとに注文の列を繰り返したCSVを書く。
func WriteCSV(w io.Writer, details ...Detail) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, d := range details {
		for _, it := range d.Items {
			row := []string{
				d.OrderNumber,
				d.CreatedAt.UTC().Format(time.RFC3339),
				string(d.Status),
				string(d.PaymentStatus),
				d.Customer.Name,
				d.Customer.Phone,
				strconv.FormatInt(it.ProductID, 10),
				it.Name,
				it.Variant,
				strconv.FormatInt(it.Price, 10),
				strconv.FormatInt(it.Quantity, 10),
				strconv.FormatInt(it.Subtotal, 10),
				strconv.FormatInt(d.Pricing.Subtotal, 10),
				strconv.FormatInt(d.Pricing.Discount, 10),
				strconv.FormatInt(d.Pricing.Shipping, 10),
				strconv.FormatInt(d.Pricing.Tax, 10),
				strconv.FormatInt(d.Pricing.Total, 10),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
