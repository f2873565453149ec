package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ExchangeMetrics records outcomes of exchange engine operations.
type ExchangeMetrics struct {
	listings     prometheus.Counter
	swapRequests *prometheus.CounterVec
	redemptions  *prometheus.CounterVec
}

// NewExchangeMetrics registers the exchange metrics on the provided registerer.
func NewExchangeMetrics(reg prometheus.Registerer) *ExchangeMetrics {
	if reg == nil {
		return &ExchangeMetrics{}
	}
	listings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exchange_listings_created_total",
		Help: "Items listed into the catalog.",
	})
	swapRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exchange_swap_requests_total",
		Help: "Swap request attempts by outcome.",
	}, []string{"outcome"})
	redemptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exchange_redemptions_total",
		Help: "Redeem attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(listings, swapRequests, redemptions)
	return &ExchangeMetrics{
		listings:     listings,
		swapRequests: swapRequests,
		redemptions:  redemptions,
	}
}

// IncListing counts a successful listing creation.
func (e *ExchangeMetrics) IncListing() {
	if e == nil || e.listings == nil {
		return
	}
	e.listings.Inc()
}

// IncSwapRequest counts a swap request attempt with the given outcome label.
func (e *ExchangeMetrics) IncSwapRequest(outcome string) {
	if e == nil || e.swapRequests == nil {
		return
	}
	e.swapRequests.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncRedemption counts a redeem attempt with the given outcome label.
func (e *ExchangeMetrics) IncRedemption(outcome string) {
	if e == nil || e.redemptions == nil {
		return
	}
	e.redemptions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
