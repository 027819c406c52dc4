package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter は整数金額（小数なし）を表示用文字列にする。
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter はロケール（例: id-ID）と通貨記号（例: Rp）から作る。
// ロケールが読めない場合はインドネシア語にフォールバックする。
func NewFormatter(locale string, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Indonesian
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}
}

// Format は "Rp 3.799.000" の形にする。
// 符号は付けない（割引の "-" は呼び出し側で付ける）。
func (f *Formatter) Format(amount int64) string {
	if amount < 0 {
		amount = -amount
	}
	n := f.printer.Sprintf("%d", amount)
	if f.symbol == "" {
		return n
	}
	return f.symbol + " " + n
}

var defaultFormatter = NewFormatter("id-ID", "Rp")

// Format はデフォルト（IDR）で整形する。
func Format(amount int64) string {
	return defaultFormatter.Format(amount)
}
