package pricing

// Field kinds reported on diagnostics.
const (
	FieldAmount   = "amount"
	FieldDiscount = "discount"
)

// Diagnostic names an input field whose text could not be used and was read as zero.
type Diagnostic struct {
	Field  string
	Kind   string
	Input  string
	Reason string
}

type collector struct {
	diags []Diagnostic
}

func (c *collector) amount(field, text string) Money {
	m, reason := parseAmount(text)
	if reason != "" {
		c.diags = append(c.diags, Diagnostic{Field: field, Kind: FieldAmount, Input: text, Reason: reason})
	}
	return m
}

func (c *collector) discount(field, text string) Discount {
	d, reason := parseDiscount(text)
	if reason != "" {
		c.diags = append(c.diags, Diagnostic{Field: field, Kind: FieldDiscount, Input: text, Reason: reason})
	}
	return d
}
