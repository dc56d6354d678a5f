package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category identifies a guest category.
type Category string

const (
	Adult Category = "adult"
	Child Category = "child"
)

// RoomCharge is the per-person room rate for one category.
type RoomCharge struct {
	BaseText     string
	DiscountText string
	Count        uint
}

// MealCharge holds per-person meal prices and how many guests take each meal.
type MealCharge struct {
	BreakfastText  string
	DinnerText     string
	BreakfastCount uint
	DinnerCount    uint
}

// LineItem is a free-form extra charge. An empty name is still priced.
type LineItem struct {
	Name         string
	CostText     string
	Quantity     uint
	DiscountText string
}

// RoomLine is the priced room charge of a category.
type RoomLine struct {
	BasePrice Money
	Discount  Discount
	UnitPrice Money
	Count     uint
	Subtotal  Money
}

// MealLine is the priced meal charge of a category. Unit prices are the ones
// actually charged, after any meal discount.
type MealLine struct {
	BreakfastPrice Money
	DinnerPrice    Money
	BreakfastCount uint
	DinnerCount    uint
	Discount       Discount
	Breakfast      Money
	Dinner         Money
	Subtotal       Money
}

// ExtraLine is one priced extra charge.
type ExtraLine struct {
	Name           string
	Cost           Money
	Discount       Discount
	DiscountedCost Money
	Quantity       uint
	Total          Money
}

// Extras is the priced extra-charge list of a category.
type Extras struct {
	Lines    []ExtraLine
	Subtotal Money
}

func priceRoom(c *collector, prefix string, in RoomCharge) RoomLine {
	base := c.amount(prefix+".room.base", in.BaseText)
	d := c.discount(prefix+".room.discount", in.DiscountText)
	unit := ApplyDiscount(base, d)
	return RoomLine{
		BasePrice: base,
		Discount:  d,
		UnitPrice: unit,
		Count:     in.Count,
		Subtotal:  times(unit, in.Count),
	}
}

// priceMeals floors meal unit prices at zero. d is the category room discount
// when meals are discountable, otherwise no discount.
func priceMeals(c *collector, prefix string, in MealCharge, d Discount) MealLine {
	breakfast := ApplyDiscount(c.amount(prefix+".meals.breakfast", in.BreakfastText), d)
	dinner := ApplyDiscount(c.amount(prefix+".meals.dinner", in.DinnerText), d)
	line := MealLine{
		BreakfastPrice: breakfast,
		DinnerPrice:    dinner,
		BreakfastCount: in.BreakfastCount,
		DinnerCount:    in.DinnerCount,
		Discount:       d,
		Breakfast:      times(breakfast, in.BreakfastCount),
		Dinner:         times(dinner, in.DinnerCount),
	}
	line.Subtotal = line.Breakfast.Add(line.Dinner)
	return line
}

func priceExtras(c *collector, prefix string, items []LineItem, discounts bool) Extras {
	out := Extras{Subtotal: decimal.Zero}
	if len(items) == 0 {
		return out
	}
	out.Lines = make([]ExtraLine, 0, len(items))
	for i, it := range items {
		field := fmt.Sprintf("%s.extras[%d]", prefix, i)
		cost := c.amount(field+".cost", it.CostText)
		d := noDiscount
		if discounts {
			d = c.discount(field+".discount", it.DiscountText)
		}
		discounted := ApplyDiscount(cost, d)
		line := ExtraLine{
			Name:           it.Name,
			Cost:           cost,
			Discount:       d,
			DiscountedCost: discounted,
			Quantity:       it.Quantity,
			Total:          times(discounted, it.Quantity),
		}
		out.Lines = append(out.Lines, line)
		out.Subtotal = out.Subtotal.Add(line.Total)
	}
	return out
}
