package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pair_screener"

// Fetch outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_fetch_total",
		Help:      "Number of completed pair feed fetches by outcome.",
	}, []string{"outcome"})

	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_fetch_duration_seconds",
		Help:      "Duration of pair feed fetches including retries.",
		Buckets:   prometheus.DefBuckets,
	})

	FeedPairs = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feed_pairs",
		Help:      "Number of pairs in the feed before (total) and after (filtered) filtering.",
	}, []string{"set"})

	DexRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dexscreener_requests_total",
		Help:      "DEXScreener API requests by result.",
	}, []string{"result"})

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry.
// Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(FetchTotal, FetchDuration, FeedPairs, DexRequests)
	})
}

// ObserveFetch records the outcome and duration of one fetch.
func ObserveFetch(outcome string, took time.Duration) {
	FetchTotal.WithLabelValues(outcome).Inc()
	FetchDuration.Observe(took.Seconds())
}

// SetFeedCounts publishes the current summary counts.
func SetFeedCounts(total, filtered int) {
	FeedPairs.WithLabelValues("total").Set(float64(total))
	FeedPairs.WithLabelValues("filtered").Set(float64(filtered))
}
