package quote

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/ryokan-quote/internal/obs"
	"github.com/noah-isme/ryokan-quote/internal/pricing"
)

// Service computes quotes under a fixed pricing policy. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	Policy pricing.Policy
}

// NewService constructs a service for policy.
func NewService(policy pricing.Policy) *Service {
	return &Service{Policy: policy}
}

// Quote prices req. Inputs that do not parse are read as zero, logged at debug
// level and counted; the quote itself is always produced.
func (s *Service) Quote(ctx context.Context, req pricing.Request) pricing.Quote {
	ctx, span := obs.Tracer().Start(ctx, "quote.compute")
	defer span.End()

	q := pricing.Compute(req, s.Policy)

	grand := pricing.Yen(q.GrandTotal)
	extras := len(req.Adult.Extras) + len(req.Child.Extras)
	span.SetAttributes(
		attribute.Int("quote.guests", int(q.Guests)),
		attribute.Int("quote.extra_items", extras),
		attribute.Int64("quote.grand_total_yen", grand),
		attribute.Int("quote.diagnostics", len(q.Diagnostics)),
	)

	var failures map[string]int
	if q.Degraded() {
		failures = make(map[string]int, 2)
		logger := zerolog.Ctx(ctx)
		for _, d := range q.Diagnostics {
			failures[d.Kind]++
			logger.Debug().Str("field", d.Field).Str("input", d.Input).Str("reason", d.Reason).Msg("quote input read as zero")
		}
	}
	obs.RecordQuote(grand, extras, failures)
	return q
}
