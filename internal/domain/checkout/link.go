package checkout

import (
	"errors"
	"net/url"
	"strings"
)

// WhatsAppBaseURL はディープリンクのドメイン
const WhatsAppBaseURL = "https://wa.me"

var ErrRecipientPhone = errors.New("recipient phone has no digits")

// NormalizePhone は数字以外を全部落とす
func NormalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EncodeMessage はクエリ用にパーセントエンコードする（空白は %20）。
func EncodeMessage(text string) string {
	// QueryEscape は "+" を %2B にするので、残った "+" は空白だけ
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// DeepLink は https://wa.me/<digits>?text=<encoded> を作る。
// 送信や画面遷移はしない。
func DeepLink(baseURL string, phone string, text string) (string, error) {
	digits := NormalizePhone(phone)
	if digits == "" {
		return "", ErrRecipientPhone
	}
	if baseURL == "" {
		baseURL = WhatsAppBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + digits + "?text=" + EncodeMessage(text), nil
}
