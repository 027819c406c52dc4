package checkout

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"storeorders/internal/domain/cart"
	"storeorders/internal/domain/money"
	"storeorders/internal/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() MessageInput {
	c := cart.New()
	_, _ = c.AddItem(cart.Product{ID: 1, Name: "Headphones", Price: 299000}, 1, "Black", "gift wrap")
	_, _ = c.AddItem(cart.Product{ID: 2, Name: "Watch", Price: 3500000}, 1, "", "")

	regular := pricing.ShippingOption{Code: "regular", Name: "Regular", Price: 10000, Duration: "2-3 days"}
	return MessageInput{
		StoreName: "Toko Maju",
		Customer: CustomerInfo{
			Name:       "Budi Santoso",
			Phone:      "+62 812-3456-7890",
			Email:      "budi@example.com",
			Address:    "Jl. Merdeka 10",
			City:       "Jakarta",
			PostalCode: "10110",
			Notes:      "call before delivery",
		},
		Items:         c.Items,
		Totals:        pricing.ComputeTotals(c, regular, nil, 200000),
		Shipping:      regular,
		PaymentMethod: "Bank Transfer",
	}
}

func TestCompose_FullMessage(t *testing.T) {
	got := NewComposer(money.NewFormatter("id-ID", "Rp")).Compose(sampleInput())

	want := strings.Join([]string{
		"*New Order - Toko Maju*",
		"",
		"*Customer*",
		"Name: Budi Santoso",
		"Phone: +62 812-3456-7890",
		"Email: budi@example.com",
		"Address: Jl. Merdeka 10, Jakarta 10110",
		"Notes: call before delivery",
		"",
		"*Items*",
		"1. Headphones (Black)",
		"   1 x Rp 299.000 = Rp 299.000",
		"   Note: gift wrap",
		"2. Watch",
		"   1 x Rp 3.500.000 = Rp 3.500.000",
		"",
		"*Summary*",
		"Subtotal: Rp 3.799.000",
		"Shipping: FREE",
		"*Total: Rp 3.799.000*",
		"",
		"Shipping method: Regular (2-3 days)",
		"Payment method: Bank Transfer",
	}, "\n")

	assert.Equal(t, want, got)
}

func TestCompose_DiscountAndPaidShipping(t *testing.T) {
	in := sampleInput()
	in.OrderNumber = "ORD-20261018-AB12CD34"
	in.Totals = pricing.Totals{Subtotal: 100000, Discount: 10000, ShippingCost: 10000, Total: 100000, CouponCode: "WELCOME10"}

	got := NewComposer(nil).Compose(in)

	assert.Contains(t, got, "Order: ORD-20261018-AB12CD34\n")
	assert.Contains(t, got, "Discount (WELCOME10): -Rp 10.000\n")
	assert.Contains(t, got, "Shipping: Rp 10.000\n")
	assert.NotContains(t, got, "FREE")
}

func TestCompose_Deterministic(t *testing.T) {
	c := NewComposer(nil)
	in := sampleInput()
	assert.Equal(t, c.Compose(in), c.Compose(in))
}

func TestDeepLink_EncodeDecodeRoundTrip(t *testing.T) {
	text := NewComposer(nil).Compose(sampleInput()) + "\nsymbols: & = + ? # % / é"

	link, err := DeepLink("", "+62 812-3456-7890", text)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://wa.me/6281234567890?text="))

	encoded := strings.TrimPrefix(link, "https://wa.me/6281234567890?text=")
	assert.NotContains(t, encoded, " ")
	assert.NotContains(t, encoded, "+")
	assert.NotContains(t, encoded, "&")

	decoded, err := url.QueryUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, text, decoded)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, text, u.Query().Get("text"))
}

func TestDeepLink_NoDigits(t *testing.T) {
	_, err := DeepLink("", "n/a", "hi")
	assert.ErrorIs(t, err, ErrRecipientPhone)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "6281234567890", NormalizePhone("+62 (812) 3456-7890"))
	assert.Equal(t, "", NormalizePhone("abc"))
}

func TestValidateCustomer(t *testing.T) {
	v := NewValidator()
	ok := sampleInput().Customer

	assert.NoError(t, ValidateCustomer(v, ok, true))

	cases := []struct {
		name     string
		mutate   func(c *CustomerInfo)
		extended bool
		field    string
	}{
		{"missing name", func(c *CustomerInfo) { c.Name = "  " }, false, "name"},
		{"missing phone", func(c *CustomerInfo) { c.Phone = "" }, false, "phone"},
		{"short phone", func(c *CustomerInfo) { c.Phone = "12-34" }, false, "phone"},
		{"bad email", func(c *CustomerInfo) { c.Email = "nope" }, false, "email"},
		{"missing address", func(c *CustomerInfo) { c.Address = "" }, false, "address"},
		{"missing city extended", func(c *CustomerInfo) { c.City = "" }, true, "city"},
		{"missing postal extended", func(c *CustomerInfo) { c.PostalCode = "" }, true, "postal_code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := ok
			tc.mutate(&c)

			err := ValidateCustomer(v, c, tc.extended)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "err=%v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	//拡張フローでなければ city は任意
	c := ok
	c.City = ""
	c.Email = ""
	assert.NoError(t, ValidateCustomer(v, c, false))
}

func TestFieldErrors_AllFields(t *testing.T) {
	v := NewValidator()

	err := v.Struct(CustomerInfo{Email: "x"})
	require.Error(t, err)

	errs := FieldErrors(err)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"name", "phone", "email", "address"}, fields)
}
