package pricing

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Kind distinguishes percentage discounts from absolute yen discounts.
type Kind string

const (
	KindAbsolute Kind = "absolute"
	KindPercent  Kind = "percent"
)

// Discount is a parsed discount token. The zero value is an absolute discount of zero.
type Discount struct {
	Kind  Kind
	Value Money
}

// Percent builds a percentage discount. Values above 100 are accepted.
func Percent(v Money) Discount {
	return Discount{Kind: KindPercent, Value: v}
}

// Absolute builds a fixed yen discount.
func Absolute(v Money) Discount {
	return Discount{Kind: KindAbsolute, Value: v}
}

// IsPercent reports whether the discount is a percentage.
func (d Discount) IsPercent() bool {
	return d.Kind == KindPercent
}

// IsZero reports whether applying d leaves any base unchanged.
func (d Discount) IsZero() bool {
	return d.Value.IsZero()
}

// Equal compares kind and value.
func (d Discount) Equal(other Discount) bool {
	return d.IsPercent() == other.IsPercent() && d.Value.Equal(other.Value)
}

// String renders the discount the way it would be typed: "10%" or "¥2,000".
func (d Discount) String() string {
	if d.IsPercent() {
		return d.Value.String() + percentMarker
	}
	return "¥" + humanize.Comma(Yen(d.Value))
}

// ApplyDiscount subtracts d from base and floors the result at zero. A discount
// equal to the base yields exactly zero; percentages above 100 also floor to zero.
func ApplyDiscount(base Money, d Discount) Money {
	var result Money
	switch d.Kind {
	case KindPercent:
		result = base.Sub(base.Mul(d.Value).Shift(-2))
	default:
		result = base.Sub(d.Value)
	}
	return floor(result)
}

var noDiscount = Absolute(decimal.Zero)
