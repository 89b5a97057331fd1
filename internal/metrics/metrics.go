package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Schedule import metrics
var (
	// Content normalization latency per file kind
	ContentExtractDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mediabrief",
			Subsystem: "import",
			Name:      "content_extract_duration_seconds",
			Help:      "Time spent normalizing schedule files into canonical content",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// Model calls per provider and outcome
	ExtractionAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediabrief",
			Subsystem: "import",
			Name:      "extraction_attempts_total",
			Help:      "Extraction client calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// Reinforced second passes
	ExtractionRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mediabrief",
			Subsystem: "import",
			Name:      "extraction_retries_total",
			Help:      "Reinforced-instruction retries triggered by generic placement names",
		},
	)

	// Validation verdicts
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediabrief",
			Subsystem: "import",
			Name:      "validations_total",
			Help:      "Validation verdicts returned to operators",
		},
		[]string{"valid"},
	)

	// Brief items produced by confirm
	ItemsConfirmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mediabrief",
			Subsystem: "import",
			Name:      "items_confirmed_total",
			Help:      "Brief items appended to carts by import confirmation",
		},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
