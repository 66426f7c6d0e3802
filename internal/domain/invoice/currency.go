package invoice

import (
	"strings"

	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217).
// It is used for formatting only; amounts are never converted.
type Currency string

const (
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	RSD Currency = "RSD" // Serbian Dinar
)

// currencyFormat describes how amounts in one currency are written
type currencyFormat struct {
	symbol      string
	symbolFirst bool
	spaced      bool
	group       string
	decimal     string
}

var currencyFormats = map[Currency]currencyFormat{
	USD: {symbol: "$", symbolFirst: true, group: ",", decimal: "."},
	EUR: {symbol: "€", spaced: true, group: ".", decimal: ","},
	RSD: {symbol: "RSD", spaced: true, group: ".", decimal: ","},
}

// AllCurrencies returns all supported currencies in display order
func AllCurrencies() []Currency {
	return []Currency{USD, EUR, RSD}
}

// ParseCurrency converts a code to a Currency, rejecting unsupported codes
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidCurrency, "Unsupported currency: "+code)
	}
	return c, nil
}

// IsValid checks if the Currency is one of the supported codes
func (c Currency) IsValid() bool {
	_, ok := currencyFormats[c]
	return ok
}

// String returns the ISO code
func (c Currency) String() string {
	return string(c)
}

// Symbol returns the symbol printed next to amounts
func (c Currency) Symbol() string {
	if f, ok := currencyFormats[c]; ok {
		return f.symbol
	}
	return string(c)
}

// Format renders an amount with grouping, two fractional digits and the
// currency symbol placed per the currency's convention.
// Example: USD 1234.5 -> "$1,234.50", EUR 1234.5 -> "1.234,50 €"
func (c Currency) Format(amount decimal.Decimal) string {
	f, ok := currencyFormats[c]
	if !ok {
		f = currencyFormat{symbol: string(c), spaced: true, group: ",", decimal: "."}
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	number := groupDigits(amount.StringFixed(2), f.group, f.decimal)

	if f.symbolFirst {
		if f.spaced {
			return sign + f.symbol + " " + number
		}
		return sign + f.symbol + number
	}
	if f.spaced {
		return sign + number + " " + f.symbol
	}
	return sign + number + f.symbol
}

// groupDigits inserts group separators into the integer part of a fixed-point
// string and swaps in the decimal separator
func groupDigits(fixed, group, dec string) string {
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(group)
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteString(dec)
		b.WriteString(fracPart)
	}
	return b.String()
}
