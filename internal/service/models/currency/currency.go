package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Currency string

const (
	CurrencyARS Currency = "ARS"
)

var ErrInvalidCurrency = errors.New("invalid currency")

func (c Currency) String() string {
	return string(c)
}

// Format renders an amount with two decimals, prefixed by the ISO code.
func (c Currency) Format(amount decimal.Decimal) string {
	return fmt.Sprintf("%s %s", c, amount.StringFixed(2))
}

// ParseCurrency accepts any ISO 4217 code known to x/text.
func ParseCurrency(s string) (Currency, error) {
	unit, err := currency.ParseISO(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}

	return Currency(unit.String()), nil
}

// MustParseCurrency is ParseCurrency for startup configuration.
func MustParseCurrency(s string) Currency {
	c, err := ParseCurrency(s)
	if err != nil {
		panic(err)
	}

	return c
}
