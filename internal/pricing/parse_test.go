package pricing

import (
	"testing"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"¥30,000", "30000"},
		{"30000", "30000"},
		{"  ¥1,234.5  ", "1234.5"},
		{"￥8,800", "8800"},
		{"-500", "-500"},
		{"abc", "0"},
		{"", "0"},
		{"   ", "0"},
		{"1.2.3", "0"},
		{"12yen", "0"},
		{"NaN", "0"},
		{"inf", "0"},
		{"1e400", "0"},
		{"1_000", "1000"},
		{"¥1_234.5", "1234.5"},
		{"1__000", "0"},
		{"_1000", "0"},
		{"1000_", "0"},
		{"1_.5", "0"},
		{"0x1p4", "0"},
		{"0X10", "0"},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseAmountRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 999, 1000, 30000, 1234567.25, 0.5} {
		text := "¥" + humanize.Commaf(v)
		got, _ := ParseAmount(text).Float64()
		if diff := got - v; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("round trip of %v via %q gave %v", v, text, got)
		}
	}
}

func TestParseDiscount(t *testing.T) {
	cases := []struct {
		in   string
		want Discount
	}{
		{"10%", Percent(decimal.NewFromInt(10))},
		{" 12.5 % ", Percent(decimal.RequireFromString("12.5"))},
		{"150%", Percent(decimal.NewFromInt(150))},
		{"¥2000", Absolute(decimal.NewFromInt(2000))},
		{"¥2,000", Absolute(decimal.NewFromInt(2000))},
		{"abc%", Absolute(decimal.Zero)},
		{"%", Absolute(decimal.Zero)},
		{"¥10%", Absolute(decimal.Zero)},
		{"abc", Absolute(decimal.Zero)},
		{"", Absolute(decimal.Zero)},
	}
	for _, tc := range cases {
		got := ParseDiscount(tc.in)
		if !got.Equal(tc.want) {
			t.Fatalf("ParseDiscount(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseDiscountMalformedPercentIsAbsolute(t *testing.T) {
	d := ParseDiscount("abc%")
	if d.IsPercent() {
		t.Fatalf("expected malformed percent to degrade to absolute, got %+v", d)
	}
	if d.Kind != KindAbsolute {
		t.Fatalf("expected kind %q, got %q", KindAbsolute, d.Kind)
	}
}

func TestParseReasons(t *testing.T) {
	if _, reason := parseAmount(""); reason != "" {
		t.Fatalf("blank amount should not be reported, got %q", reason)
	}
	if _, reason := parseAmount("abc"); reason != reasonNotNumber {
		t.Fatalf("expected %q, got %q", reasonNotNumber, reason)
	}
	if _, reason := parseAmount("Inf"); reason != reasonNotFinite {
		t.Fatalf("expected %q, got %q", reasonNotFinite, reason)
	}
	if _, reason := parseAmount("0x1p4"); reason != reasonNotNumber {
		t.Fatalf("expected hex literal to be refused, got %q", reason)
	}
	if _, reason := parseDiscount("%"); reason != reasonNotNumber {
		t.Fatalf("expected %q for bare percent marker, got %q", reasonNotNumber, reason)
	}
}
