package quote

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/noah-isme/ryokan-quote/internal/pricing"
)

// Renderer turns a computed quote into its JSON and text forms. Every amount is
// shown as whole yen truncated toward zero.
type Renderer struct {
	Symbol string
}

// Response is the JSON body returned for a computed quote.
type Response struct {
	Adult             CategoryResponse     `json:"adult"`
	Child             CategoryResponse     `json:"child"`
	GrandTotal        int64                `json:"grandTotal"`
	GrandTotalDisplay string               `json:"grandTotalDisplay"`
	Guests            uint                 `json:"guests"`
	CostPerGuest      int64                `json:"costPerGuest"`
	Policy            PolicyResponse       `json:"policy"`
	Summary           []string             `json:"summary"`
	Diagnostics       []DiagnosticResponse `json:"diagnostics"`
}

// CategoryResponse is the breakdown of one guest category.
type CategoryResponse struct {
	Room     RoomResponse   `json:"room"`
	Meals    MealsResponse  `json:"meals"`
	Extras   ExtrasResponse `json:"extras"`
	Subtotal int64          `json:"subtotal"`
}

// DiscountResponse describes a parsed discount.
type DiscountResponse struct {
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	Display string `json:"display"`
}

// RoomResponse is the priced room charge.
type RoomResponse struct {
	BasePrice int64            `json:"basePrice"`
	Discount  DiscountResponse `json:"discount"`
	UnitPrice int64            `json:"unitPrice"`
	Count     uint             `json:"count"`
	Subtotal  int64            `json:"subtotal"`
}

// MealsResponse is the priced meal charge.
type MealsResponse struct {
	BreakfastPrice int64            `json:"breakfastPrice"`
	BreakfastCount uint             `json:"breakfastCount"`
	Breakfast      int64            `json:"breakfast"`
	DinnerPrice    int64            `json:"dinnerPrice"`
	DinnerCount    uint             `json:"dinnerCount"`
	Dinner         int64            `json:"dinner"`
	Discount       DiscountResponse `json:"discount"`
	Subtotal       int64            `json:"subtotal"`
}

// ExtraLineResponse is one priced extra charge.
type ExtraLineResponse struct {
	Name           string           `json:"name"`
	Cost           int64            `json:"cost"`
	Discount       DiscountResponse `json:"discount"`
	DiscountedCost int64            `json:"discountedCost"`
	Quantity       uint             `json:"quantity"`
	Total          int64            `json:"total"`
}

// ExtrasResponse is the priced extra-charge list.
type ExtrasResponse struct {
	Lines    []ExtraLineResponse `json:"lines"`
	Subtotal int64               `json:"subtotal"`
}

// DiagnosticResponse names an input that was read as zero.
type DiagnosticResponse struct {
	Field  string `json:"field"`
	Kind   string `json:"kind"`
	Input  string `json:"input"`
	Reason string `json:"reason"`
}

// PolicyResponse is the active pricing policy.
type PolicyResponse struct {
	MealsDiscountable bool   `json:"mealsDiscountable"`
	ExtraDiscounts    bool   `json:"extraDiscounts"`
	MaxExtraItems     int    `json:"maxExtraItems,omitempty"`
	CurrencySymbol    string `json:"currencySymbol,omitempty"`
}

var categoryLabels = map[pricing.Category]string{
	pricing.Adult: "大人",
	pricing.Child: "子供",
}

const unnamedExtra = "(名称なし)"

func (r Renderer) symbol() string {
	if r.Symbol == "" {
		return "¥"
	}
	return r.Symbol
}

// Yen formats m as "¥54,000".
func (r Renderer) Yen(m pricing.Money) string {
	return r.symbol() + humanize.Comma(pricing.Yen(m))
}

func (r Renderer) number(m pricing.Money) string {
	return humanize.Comma(pricing.Yen(m))
}

// Discount formats d as typed: "10%" or "¥2,000".
func (r Renderer) Discount(d pricing.Discount) string {
	if d.IsPercent() {
		return d.Value.String() + "%"
	}
	return r.Yen(d.Value)
}

// Response builds the JSON body for q.
func (r Renderer) Response(q pricing.Quote, policy pricing.Policy) Response {
	resp := Response{
		Adult:             r.category(q.Adult),
		Child:             r.category(q.Child),
		GrandTotal:        pricing.Yen(q.GrandTotal),
		GrandTotalDisplay: r.Yen(q.GrandTotal),
		Guests:            q.Guests,
		CostPerGuest:      pricing.Yen(q.CostPerGuest),
		Policy:            PolicyResponse{MealsDiscountable: policy.MealsDiscountable, ExtraDiscounts: policy.ExtraDiscounts},
		Summary:           r.Summary(q),
		Diagnostics:       make([]DiagnosticResponse, 0, len(q.Diagnostics)),
	}
	for _, d := range q.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, DiagnosticResponse{Field: d.Field, Kind: d.Kind, Input: d.Input, Reason: d.Reason})
	}
	return resp
}

func (r Renderer) discount(d pricing.Discount) DiscountResponse {
	kind := pricing.KindAbsolute
	if d.IsPercent() {
		kind = pricing.KindPercent
	}
	return DiscountResponse{Kind: string(kind), Value: d.Value.String(), Display: r.Discount(d)}
}

func (r Renderer) category(c pricing.CategoryQuote) CategoryResponse {
	out := CategoryResponse{
		Room: RoomResponse{
			BasePrice: pricing.Yen(c.Room.BasePrice),
			Discount:  r.discount(c.Room.Discount),
			UnitPrice: pricing.Yen(c.Room.UnitPrice),
			Count:     c.Room.Count,
			Subtotal:  pricing.Yen(c.Room.Subtotal),
		},
		Meals: MealsResponse{
			BreakfastPrice: pricing.Yen(c.Meals.BreakfastPrice),
			BreakfastCount: c.Meals.BreakfastCount,
			Breakfast:      pricing.Yen(c.Meals.Breakfast),
			DinnerPrice:    pricing.Yen(c.Meals.DinnerPrice),
			DinnerCount:    c.Meals.DinnerCount,
			Dinner:         pricing.Yen(c.Meals.Dinner),
			Discount:       r.discount(c.Meals.Discount),
			Subtotal:       pricing.Yen(c.Meals.Subtotal),
		},
		Extras: ExtrasResponse{
			Lines:    make([]ExtraLineResponse, 0, len(c.Extras.Lines)),
			Subtotal: pricing.Yen(c.Extras.Subtotal),
		},
		Subtotal: pricing.Yen(c.Subtotal),
	}
	for _, l := range c.Extras.Lines {
		out.Extras.Lines = append(out.Extras.Lines, ExtraLineResponse{
			Name:           l.Name,
			Cost:           pricing.Yen(l.Cost),
			Discount:       r.discount(l.Discount),
			DiscountedCost: pricing.Yen(l.DiscountedCost),
			Quantity:       l.Quantity,
			Total:          pricing.Yen(l.Total),
		})
	}
	return out
}

// Summary renders the printable breakdown. Room lines appear only for categories
// with guests; meal lines always appear; extras appear when present.
func (r Renderer) Summary(q pricing.Quote) []string {
	var lines []string
	for _, c := range []pricing.CategoryQuote{q.Adult, q.Child} {
		if c.Room.Count > 0 {
			lines = append(lines, fmt.Sprintf("%s 客室小計: %s (%s 円 × %d名)",
				categoryLabels[c.Category], r.Yen(c.Room.Subtotal), r.number(c.Room.UnitPrice), c.Room.Count))
		}
	}
	for _, c := range []pricing.CategoryQuote{q.Adult, q.Child} {
		m := c.Meals
		lines = append(lines, fmt.Sprintf("%s 食事小計: %s (朝食: %s × %d名 + 夕食: %s × %d名)",
			categoryLabels[c.Category], r.Yen(m.Subtotal), r.Yen(m.BreakfastPrice), m.BreakfastCount, r.Yen(m.DinnerPrice), m.DinnerCount))
	}
	for _, c := range []pricing.CategoryQuote{q.Adult, q.Child} {
		if len(c.Extras.Lines) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s 追加料金小計: %s", categoryLabels[c.Category], r.Yen(c.Extras.Subtotal)))
		for _, l := range c.Extras.Lines {
			name := strings.TrimSpace(l.Name)
			if name == "" {
				name = unnamedExtra
			}
			lines = append(lines, fmt.Sprintf("  - %s: %s × %d = %s", name, r.Yen(l.DiscountedCost), l.Quantity, r.Yen(l.Total)))
		}
	}
	lines = append(lines, "合計金額: "+r.Yen(q.GrandTotal))
	if q.Guests > 0 {
		lines = append(lines, "1名あたり: "+r.Yen(q.CostPerGuest))
	}
	return lines
}
