package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuotesComputedTotal counts computed quotes by outcome (ok or degraded).
	QuotesComputedTotal *prometheus.CounterVec
	// QuoteParseFailuresTotal counts input fields read as zero, by field kind.
	QuoteParseFailuresTotal *prometheus.CounterVec
	// QuoteGrandTotalYen records the distribution of quoted grand totals.
	QuoteGrandTotalYen prometheus.Histogram
	// QuoteExtraItems records how many extra line items a quote carried.
	QuoteExtraItems prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers quote Prometheus collectors.
// Only the first call has an effect.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuotesComputedTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_computed_total",
			Help:      "Count of computed quotes by outcome.",
		}, []string{"result"}))
		QuoteParseFailuresTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_parse_failures_total",
			Help:      "Count of quote input fields that could not be parsed and were read as zero.",
		}, []string{"field_kind"}))
		QuoteGrandTotalYen = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_grand_total_yen",
			Help:      "Distribution of quoted grand totals in yen.",
			Buckets:   []float64{10_000, 30_000, 50_000, 100_000, 200_000, 500_000, 1_000_000},
		}))
		QuoteExtraItems = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_extra_items",
			Help:      "Number of extra line items per quote.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}))
	})
}

// RecordQuote observes one computed quote. It is a no-op until the domain
// metrics are registered.
func RecordQuote(grandTotalYen int64, extraItems int, failuresByKind map[string]int) {
	if QuotesComputedTotal == nil {
		return
	}
	result := "ok"
	if len(failuresByKind) > 0 {
		result = "degraded"
	}
	QuotesComputedTotal.WithLabelValues(result).Inc()
	for kind, n := range failuresByKind {
		QuoteParseFailuresTotal.WithLabelValues(kind).Add(float64(n))
	}
	QuoteGrandTotalYen.Observe(float64(grandTotalYen))
	QuoteExtraItems.Observe(float64(extraItems))
}
