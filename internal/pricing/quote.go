package pricing

import "github.com/shopspring/decimal"

// Policy selects between the pricing rules that differ across front desks.
type Policy struct {
	// MealsDiscountable applies the category room discount to meal unit prices.
	MealsDiscountable bool
	// ExtraDiscounts honours the per-item discount on extra charges.
	ExtraDiscounts bool
}

// DefaultPolicy never discounts meals and honours per-item extra discounts.
func DefaultPolicy() Policy {
	return Policy{ExtraDiscounts: true}
}

// CategoryRequest carries the raw inputs of one guest category.
type CategoryRequest struct {
	Room   RoomCharge
	Meals  MealCharge
	Extras []LineItem
}

// Request is a complete quote request. It is passed by value and never mutated.
type Request struct {
	Adult CategoryRequest
	Child CategoryRequest
}

// Guests returns the number of guests staying.
func (r Request) Guests() uint {
	return r.Adult.Room.Count + r.Child.Room.Count
}

// CategoryQuote is the priced breakdown of one guest category.
type CategoryQuote struct {
	Category Category
	Room     RoomLine
	Meals    MealLine
	Extras   Extras
	Subtotal Money
}

// Quote is the computed result. Every intermediate subtotal is kept for display.
type Quote struct {
	Adult        CategoryQuote
	Child        CategoryQuote
	GrandTotal   Money
	Guests       uint
	CostPerGuest Money
	Diagnostics  []Diagnostic
}

// Degraded reports whether any input was read as zero because it did not parse.
func (q Quote) Degraded() bool {
	return len(q.Diagnostics) > 0
}

// Compute prices req under policy. It holds no state and never fails: malformed
// text is read as zero and reported in Quote.Diagnostics.
func Compute(req Request, policy Policy) Quote {
	c := &collector{}
	adult := priceCategory(c, Adult, req.Adult, policy)
	child := priceCategory(c, Child, req.Child, policy)

	q := Quote{
		Adult:        adult,
		Child:        child,
		GrandTotal:   adult.Subtotal.Add(child.Subtotal),
		Guests:       req.Guests(),
		CostPerGuest: decimal.Zero,
		Diagnostics:  c.diags,
	}
	if q.Guests > 0 {
		q.CostPerGuest = q.GrandTotal.Div(decimal.NewFromInt(int64(q.Guests)))
	}
	return q
}

func priceCategory(c *collector, cat Category, in CategoryRequest, policy Policy) CategoryQuote {
	prefix := string(cat)
	room := priceRoom(c, prefix, in.Room)
	mealDiscount := noDiscount
	if policy.MealsDiscountable {
		mealDiscount = room.Discount
	}
	meals := priceMeals(c, prefix, in.Meals, mealDiscount)
	extras := priceExtras(c, prefix, in.Extras, policy.ExtraDiscounts)
	return CategoryQuote{
		Category: cat,
		Room:     room,
		Meals:    meals,
		Extras:   extras,
		Subtotal: room.Subtotal.Add(meals.Subtotal).Add(extras.Subtotal),
	}
}
