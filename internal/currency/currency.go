// Package currency renders amounts for display. It never converts between
// currencies.
package currency

import (
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"KRW": "₩",
	"IDR": "Rp",
	"PHP": "₱",
	"VND": "₫",
	"THB": "฿",
	"RUB": "₽",
	"TRY": "₺",
	"NGN": "₦",
	"BRL": "R$",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "CHF ",
	"MYR": "RM",
	"SGD": "S$",
}

// Formatter maps an amount and ISO 4217 code to a display string.
type Formatter struct {
	// Fallback is used when the code is empty.
	Fallback string
}

// Format renders amount with the currency's symbol, standard number of
// decimals and thousands separators, e.g. "$1,234.50" or "-¥1,235".
func (f Formatter) Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = strings.ToUpper(f.Fallback)
	}

	scale := Scale(code)
	rounded := amount.Round(int32(scale))

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + Symbol(code) + group(rounded, scale)
}

// Symbol returns the display prefix for code. Codes without a known symbol
// render as "CODE ".
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	if code == "" {
		return ""
	}
	return code + " "
}

// Scale returns the number of decimals conventionally shown for code,
// 2 when the code is not a recognised ISO currency.
func Scale(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// Valid reports whether code is a recognised ISO 4217 currency.
func Valid(code string) bool {
	_, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	return err == nil
}

// group renders a non-negative amount already rounded to scale with
// thousands separators, keeping every digit.
func group(amount decimal.Decimal, scale int) string {
	// BigComma consumes its argument.
	out := humanize.BigComma(new(big.Int).Set(amount.BigInt()))
	if scale > 0 {
		fixed := amount.StringFixed(int32(scale))
		out += fixed[strings.IndexByte(fixed, '.'):]
	}
	return out
}
