package quote

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/ryokan-quote/internal/pricing"
)

// Text is a free-form money or discount field. It accepts a JSON string or a
// bare JSON number so clients may send either "¥30,000" or 30000.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("must be a string or a number")
	}
	*t = Text(n.String())
	return nil
}

// Request is the JSON body of POST /api/v1/quotes.
type Request struct {
	Adult CategoryInput `json:"adult"`
	Child CategoryInput `json:"child"`
}

// CategoryInput holds the inputs of one guest category.
type CategoryInput struct {
	Room   RoomInput    `json:"room"`
	Meals  MealsInput   `json:"meals"`
	Extras []ExtraInput `json:"extras,omitempty" validate:"omitempty,dive"`
}

// RoomInput is the per-person room rate, its discount and the guest count.
type RoomInput struct {
	BasePrice Text `json:"basePrice" validate:"max=64"`
	Discount  Text `json:"discount" validate:"max=64"`
	Count     int  `json:"count" validate:"min=0,max=1000"`
}

// MealsInput holds per-person meal prices and how many guests take each meal.
type MealsInput struct {
	BreakfastPrice Text `json:"breakfastPrice" validate:"max=64"`
	BreakfastCount int  `json:"breakfastCount" validate:"min=0,max=1000"`
	DinnerPrice    Text `json:"dinnerPrice" validate:"max=64"`
	DinnerCount    int  `json:"dinnerCount" validate:"min=0,max=1000"`
}

// ExtraInput is one extra charge. Name is display only and may be empty.
type ExtraInput struct {
	Name     string `json:"name" validate:"max=120"`
	Cost     Text   `json:"cost" validate:"max=64"`
	Quantity int    `json:"quantity" validate:"min=0,max=10000"`
	Discount Text   `json:"discount,omitempty" validate:"max=64"`
}

// ExtraItems returns the number of extra line items across both categories.
func (r Request) ExtraItems() int {
	return len(r.Adult.Extras) + len(r.Child.Extras)
}

// ToPricing converts a validated request into the engine's request. Counts
// must already be checked to be non-negative.
func (r Request) ToPricing() pricing.Request {
	return pricing.Request{
		Adult: r.Adult.toPricing(),
		Child: r.Child.toPricing(),
	}
}

func (c CategoryInput) toPricing() pricing.CategoryRequest {
	out := pricing.CategoryRequest{
		Room: pricing.RoomCharge{
			BaseText:     string(c.Room.BasePrice),
			DiscountText: string(c.Room.Discount),
			Count:        uint(c.Room.Count),
		},
		Meals: pricing.MealCharge{
			BreakfastText:  string(c.Meals.BreakfastPrice),
			DinnerText:     string(c.Meals.DinnerPrice),
			BreakfastCount: uint(c.Meals.BreakfastCount),
			DinnerCount:    uint(c.Meals.DinnerCount),
		},
	}
	if len(c.Extras) > 0 {
		out.Extras = make([]pricing.LineItem, 0, len(c.Extras))
		for _, e := range c.Extras {
			out.Extras = append(out.Extras, pricing.LineItem{
				Name:         strings.TrimSpace(e.Name),
				CostText:     string(e.Cost),
				Quantity:     uint(e.Quantity),
				DiscountText: string(e.Discount),
			})
		}
	}
	return out
}

// DefaultRequest returns the form values a front desk starts from.
func DefaultRequest() Request {
	return Request{
		Adult: CategoryInput{
			Room:  RoomInput{BasePrice: "30000", Discount: "10%", Count: 2},
			Meals: MealsInput{BreakfastPrice: "3000", BreakfastCount: 2, DinnerPrice: "5000", DinnerCount: 2},
		},
		Child: CategoryInput{
			Room:  RoomInput{BasePrice: "15000", Discount: "5%", Count: 1},
			Meals: MealsInput{BreakfastPrice: "2000", BreakfastCount: 1, DinnerPrice: "3500", DinnerCount: 1},
		},
	}
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationDetails maps "adult.room.count" style paths to the failed rule.
func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[path] = rule
	}
	return details
}
