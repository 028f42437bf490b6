package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// Money mirrors the MoneyV2 object. Amount is a decimal string.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m Money) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(m.Amount)
}

// String formats the amount with two decimals, e.g. "$1,204.50".
func (m Money) String() string {
	d, err := m.Decimal()
	if err != nil {
		return fmt.Sprintf("%s %s", m.Amount, m.CurrencyCode)
	}
	places := int32(2)
	if m.CurrencyCode == "JPY" {
		places = 0
	}
	amount := groupThousands(d.StringFixedBank(places))
	if symbol, ok := currencySymbols[m.CurrencyCode]; ok {
		if d.IsNegative() {
			return "-" + symbol + amount[1:]
		}
		return symbol + amount
	}
	return amount + " " + m.CurrencyCode
}

func groupThousands(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i:]
			break
		}
	}
	out := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}
	return sign + string(out) + frac
}
