package draft

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Field names an editable line attribute.
type Field string

const (
	FieldQuantity  Field = "quantity"
	FieldUnitPrice Field = "unit_price"
	FieldDiscount  Field = "discount"
)

var (
	hundred     = decimal.NewFromInt(100)
	maxQuantity = decimal.NewFromInt(math.MaxInt32)
)

// Line is one product entry of a draft.
type Line struct {
	ProductID   int64
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   decimal.Decimal
	// CatalogPrice is the product price when the line was added.
	CatalogPrice    decimal.Decimal
	Discount        decimal.Decimal
	DiscountAllowed bool
}

// NetUnitPrice is the unit price after the line discount.
func (l Line) NetUnitPrice() decimal.Decimal {
	if l.Discount.IsZero() {
		return l.UnitPrice
	}

	return l.UnitPrice.Mul(hundred.Sub(l.Discount)).Div(hundred)
}

// Subtotal is unit_price * (1 - discount/100) * quantity, unrounded.
func (l Line) Subtotal() decimal.Decimal {
	return l.NetUnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PriceOverridden reports a unit price that differs from the catalog price.
func (l Line) PriceOverridden() bool {
	return !l.UnitPrice.Equal(l.CatalogPrice)
}

// submittedUnitPrice is the price sent to the backend. Discounted prices are
// rounded to cents; undiscounted ones go out exactly as stored.
func (l Line) submittedUnitPrice() float64 {
	price := l.NetUnitPrice()
	if !l.Discount.IsZero() {
		price = price.Round(2)
	}
	f, _ := price.Float64()

	return f
}

func parseQuantity(value string) (int, error) {
	v, err := decimal.NewFromString(normalizeNumber(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, value)
	}
	if v.GreaterThan(maxQuantity) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidQuantity, value)
	}
	qty := v.IntPart()
	if qty < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, value)
	}

	return int(qty), nil
}

// parseDecimal reads operator input; anything non-numeric counts as zero.
func parseDecimal(value string) decimal.Decimal {
	v, err := decimal.NewFromString(normalizeNumber(value))
	if err != nil {
		return decimal.Zero
	}

	return v
}

// normalizeNumber accepts a comma as decimal separator.
func normalizeNumber(value string) string {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}

	return value
}

func clampDiscount(v decimal.Decimal) decimal.Decimal {
	switch {
	case v.IsNegative():
		return decimal.Zero
	case v.GreaterThan(hundred):
		return hundred
	default:
		return v
	}
}
