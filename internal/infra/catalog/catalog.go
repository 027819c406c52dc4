package catalog

import (
	"fmt"
	"os"
	"strings"

	"storeorders/internal/domain/pricing"

	"gopkg.in/yaml.v3"
)

// Store はストア設定（配送方法・クーポン・しきい値）
type Store struct {
	Name           string `yaml:"name"`
	Locale         string `yaml:"locale"`
	CurrencySymbol string `yaml:"currency_symbol"`
	//注文メッセージの送り先（ストアのWhatsApp番号）
	WhatsAppPhone string `yaml:"whatsapp_phone"`

	//0以下なら送料無料なし
	FreeShippingThreshold int64 `yaml:"free_shipping_threshold"`
	//0以下なら最低注文金額なし
	MinimumOrder int64 `yaml:"minimum_order"`
	//city / postal_code も必須にする
	ExtendedCheckout bool `yaml:"extended_checkout"`

	DefaultShipping string                   `yaml:"default_shipping"`
	ShippingOptions []pricing.ShippingOption `yaml:"shipping_options"`
	PaymentMethods  []string                 `yaml:"payment_methods"`
	Coupons         []pricing.CouponRule     `yaml:"coupons"`
}

// Load はYAMLを読んで検証する
func Load(path string) (Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Store{}, fmt.Errorf("read store config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Store, error) {
	var s Store
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Store{}, fmt.Errorf("parse store config: %w", err)
	}
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return Store{}, err
	}
	return s, nil
}

func (s *Store) applyDefaults() {
	if s.Locale == "" {
		s.Locale = "id-ID"
	}
	if s.CurrencySymbol == "" {
		s.CurrencySymbol = "Rp"
	}
	if s.DefaultShipping == "" && len(s.ShippingOptions) > 0 {
		s.DefaultShipping = s.ShippingOptions[0].Code
	}
}

func (s *Store) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("store config: name is required")
	}
	if len(s.ShippingOptions) == 0 {
		return fmt.Errorf("store config: at least one shipping option is required")
	}
	seen := map[string]bool{}
	for _, o := range s.ShippingOptions {
		if o.Code == "" {
			return fmt.Errorf("store config: shipping option code is required")
		}
		if seen[o.Code] {
			return fmt.Errorf("store config: duplicate shipping option %q", o.Code)
		}
		if o.Price < 0 {
			return fmt.Errorf("store config: shipping option %q has negative price", o.Code)
		}
		seen[o.Code] = true
	}
	if !seen[s.DefaultShipping] {
		return fmt.Errorf("store config: default shipping %q is not an option", s.DefaultShipping)
	}
	for _, c := range s.Coupons {
		if c.Percent < 0 || c.Percent > 100 {
			return fmt.Errorf("store config: coupon %q percent out of range", c.Code)
		}
	}
	return nil
}

// Shipping は code の配送方法を返す。空なら既定。
func (s Store) Shipping(code string) (pricing.ShippingOption, bool) {
	if code == "" {
		code = s.DefaultShipping
	}
	for _, o := range s.ShippingOptions {
		if o.Code == code {
			return o, true
		}
	}
	return pricing.ShippingOption{}, false
}

// AcceptsPayment は支払い方法がリストにあるか（リストが空なら何でも可）
func (s Store) AcceptsPayment(method string) bool {
	if len(s.PaymentMethods) == 0 {
		return true
	}
	for _, m := range s.PaymentMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}
