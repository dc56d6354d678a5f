package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Money represents a tax-inclusive yen amount. Arithmetic is exact decimal.
type Money = decimal.Decimal

var maxYen = decimal.NewFromInt(math.MaxInt64)

// Yen returns a whole yen amount, truncating any fraction toward zero. Amounts
// past the int64 range saturate instead of wrapping.
func Yen(m Money) int64 {
	switch {
	case !m.LessThan(maxYen):
		return math.MaxInt64
	case !m.GreaterThan(maxYen.Neg()):
		return -math.MaxInt64
	}
	return m.Truncate(0).IntPart()
}

// floor clamps negative amounts to zero; exact zero passes through.
func floor(m Money) Money {
	if m.IsNegative() {
		return decimal.Zero
	}
	return m
}

func times(m Money, n uint) Money {
	if n == 0 {
		return decimal.Zero
	}
	return m.Mul(decimal.NewFromInt(int64(n)))
}
