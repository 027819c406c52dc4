package orderview

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"storeorders/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() (model.Order, []model.OrderItem) {
	created := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	o := model.Order{
		ID:              7,
		OrderNumber:     "ORD-20261001-0000ABCD",
		CustomerID:      3,
		CustomerName:    "Siti",
		CustomerPhone:   "628111111111",
		ShippingAddress: "Jl. Sudirman 1",
		Subtotal:        3799000,
		Shipping:        0,
		Tax:             0,
		Discount:        0,
		Total:           3799000,
		Status:          model.OrderStatusConfirmed,
		PaymentStatus:   model.PaymentStatusPending,
		Version:         2,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	items := []model.OrderItem{
		{ProductID: 1, ProductNameSnapshot: "Headphones", UnitPriceSnapshot: 299000, Quantity: 1},
		{ProductID: 2, ProductNameSnapshot: "Watch", UnitPriceSnapshot: 3500000, Quantity: 1},
	}
	return o, items
}

func TestBuild_RecomputesFromItems(t *testing.T) {
	o, items := sampleOrder()

	d := Build(o, items, nil)

	require.Len(t, d.Items, 2)
	assert.Equal(t, int64(299000), d.Items[0].Subtotal)
	assert.Equal(t, int64(3799000), d.Pricing.Subtotal)
	assert.Equal(t, int64(3799000), d.Pricing.Total)
	assert.False(t, d.SubtotalMismatch)
	assert.Equal(t, []model.OrderStatus{model.OrderStatusProcessing, model.OrderStatusCancelled}, d.AllowedTransitions)
}

func TestBuild_StaleStoredSubtotal(t *testing.T) {
	o, items := sampleOrder()
	o.Subtotal = 1
	o.Discount = 99000
	o.Shipping = 10000
	o.Tax = 5000
	items[0].Quantity = 2

	d := Build(o, items, nil)

	assert.True(t, d.SubtotalMismatch)
	assert.Equal(t, int64(598000), d.Items[0].Subtotal)
	assert.Equal(t, int64(4098000), d.Pricing.Subtotal)
	assert.Equal(t, int64(4098000-99000+10000+5000), d.Pricing.Total)
}

func TestBuild_KeepsSnapshotContact(t *testing.T) {
	o, items := sampleOrder()
	c := &model.Customer{ID: 3, Name: "Siti A.", Phone: "628222222222", Email: "siti@example.com"}

	d := Build(o, items, c)

	//注文時の連絡先はそのまま、マスタの新しい値は別に出す
	assert.Equal(t, "Siti", d.Customer.Name)
	assert.Equal(t, "628111111111", d.Customer.Phone)
	assert.Empty(t, d.Customer.Email)
	assert.Equal(t, "628222222222", d.Customer.CurrentPhone)
	assert.Equal(t, "siti@example.com", d.Customer.CurrentEmail)
}

func TestBuild_SameContactHasNoCurrent(t *testing.T) {
	o, items := sampleOrder()
	c := &model.Customer{ID: 3, Phone: "628111111111"}

	d := Build(o, items, c)

	assert.Equal(t, "628111111111", d.Customer.Phone)
	assert.Empty(t, d.Customer.CurrentPhone)
	assert.Empty(t, d.Customer.CurrentEmail)
}

func TestWriteCSV(t *testing.T) {
	o, items := sampleOrder()
	d := Build(o, items, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, d))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "ORD-20261001-0000ABCD", rows[1][0])
	assert.Equal(t, "2026-10-01T09:30:00Z", rows[1][1])
	assert.Equal(t, "Watch", rows[2][7])
	assert.Equal(t, "3799000", rows[2][16])
}
