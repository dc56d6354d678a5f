package quote_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ryokan-quote/internal/obs"
	"github.com/noah-isme/ryokan-quote/internal/pricing"
	"github.com/noah-isme/ryokan-quote/internal/quote"
)

func TestServiceRecordsDegradedQuotes(t *testing.T) {
	obs.MustRegisterDomainMetrics("ryokan", prometheus.NewRegistry())
	okBefore := testutil.ToFloat64(obs.QuotesComputedTotal.WithLabelValues("ok"))
	degradedBefore := testutil.ToFloat64(obs.QuotesComputedTotal.WithLabelValues("degraded"))
	amountBefore := testutil.ToFloat64(obs.QuoteParseFailuresTotal.WithLabelValues(pricing.FieldAmount))

	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())
	svc := quote.NewService(pricing.DefaultPolicy())

	q := svc.Quote(ctx, quote.DefaultRequest().ToPricing())
	require.False(t, q.Degraded())
	require.Equal(t, int64(89750), pricing.Yen(q.GrandTotal))

	req := pricing.Request{Adult: pricing.CategoryRequest{
		Room:   pricing.RoomCharge{BaseText: "thirty thousand", Count: 1},
		Extras: []pricing.LineItem{{Name: "sake", CostText: "1,2,3.4.5", Quantity: 1}},
	}}
	q = svc.Quote(ctx, req)
	require.True(t, q.Degraded())
	require.True(t, q.GrandTotal.IsZero())

	require.Equal(t, okBefore+1, testutil.ToFloat64(obs.QuotesComputedTotal.WithLabelValues("ok")))
	require.Equal(t, degradedBefore+1, testutil.ToFloat64(obs.QuotesComputedTotal.WithLabelValues("degraded")))
	require.Equal(t, amountBefore+2, testutil.ToFloat64(obs.QuoteParseFailuresTotal.WithLabelValues(pricing.FieldAmount)))

	require.Contains(t, logs.String(), `"field":"adult.room.base"`)
	require.Contains(t, logs.String(), `"field":"adult.extras[0].cost"`)
}
