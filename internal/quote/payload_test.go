package quote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextAcceptsStringsNumbersAndNull(t *testing.T) {
	var in RoomInput
	require.NoError(t, json.Unmarshal([]byte(`{"basePrice":30000,"discount":"10%","count":2}`), &in))
	require.Equal(t, Text("30000"), in.BasePrice)
	require.Equal(t, Text("10%"), in.Discount)

	require.NoError(t, json.Unmarshal([]byte(`{"basePrice":"¥1,500.5","discount":null}`), &in))
	require.Equal(t, Text("¥1,500.5"), in.BasePrice)
	require.Equal(t, Text(""), in.Discount)

	require.Error(t, json.Unmarshal([]byte(`{"basePrice":true}`), &in))
	require.Error(t, json.Unmarshal([]byte(`{"basePrice":{"v":1}}`), &in))
}

func TestValidationReportsJSONPaths(t *testing.T) {
	v := NewValidator()
	req := DefaultRequest()
	req.Adult.Room.Count = -1
	req.Child.Extras = []ExtraInput{{Name: "futon", Cost: "1000", Quantity: -2}}

	err := v.Struct(req)
	require.Error(t, err)
	details := validationDetails(err)
	require.Equal(t, map[string]string{
		"adult.room.count":         "min=0",
		"child.extras[0].quantity": "min=0",
	}, details)

	require.NoError(t, v.Struct(DefaultRequest()))
	require.Nil(t, validationDetails(nil))
}

func TestToPricing(t *testing.T) {
	req := DefaultRequest()
	req.Adult.Extras = []ExtraInput{{Name: "  onsen  ", Cost: "2000", Quantity: 3, Discount: "500"}}

	out := req.ToPricing()
	require.Equal(t, "30000", out.Adult.Room.BaseText)
	require.Equal(t, "10%", out.Adult.Room.DiscountText)
	require.EqualValues(t, 2, out.Adult.Room.Count)
	require.EqualValues(t, 1, out.Child.Meals.DinnerCount)
	require.Equal(t, "3500", out.Child.Meals.DinnerText)
	require.Len(t, out.Adult.Extras, 1)
	require.Equal(t, "onsen", out.Adult.Extras[0].Name)
	require.EqualValues(t, 3, out.Adult.Extras[0].Quantity)
	require.Nil(t, out.Child.Extras)
	require.EqualValues(t, 3, out.Guests())
	require.Equal(t, 1, req.ExtraItems())
}
