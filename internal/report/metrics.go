package report

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sanspareilsmyn/diversitylens/internal/stats"
)

// Metrics holds all Prometheus metrics for a run.
// It implements stats.Observer so the builder can feed token events directly.
type Metrics struct {
	Tokens              prometheus.Counter
	Scales              prometheus.Counter
	TokenLength         prometheus.Histogram
	WindowCount         *prometheus.GaugeVec
	AverageUnique       *prometheus.GaugeVec
	ThresholdViolations *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	tokens := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "diversitylens_tokens_total",
		Help: "Total number of tokens read from the source.",
	})

	scales := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "diversitylens_scales_total",
		Help: "Total number of window scales observed.",
	})

	tokenLength := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "diversitylens_token_length_bytes",
		Help:    "Length of tokens in bytes.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	windowCount := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "diversitylens_window_count",
		Help: "Number of windows of a given size in the stream, the last partial window included.",
	}, []string{"window_size"})

	averageUnique := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "diversitylens_average_unique_tokens",
		Help: "Average number of distinct tokens per window of a given size.",
	}, []string{"window_size"})

	violations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "diversitylens_threshold_violations_total",
		Help: "Total number of window sizes whose average distinct tokens fell below the configured minimum.",
	}, []string{"window_size"})

	reg.MustRegister(tokens, scales, tokenLength, windowCount, averageUnique, violations)

	return &Metrics{
		Tokens:              tokens,
		Scales:              scales,
		TokenLength:         tokenLength,
		WindowCount:         windowCount,
		AverageUnique:       averageUnique,
		ThresholdViolations: violations,
	}
}

// ObserveToken implements stats.Observer.
func (m *Metrics) ObserveToken(token string) {
	m.Tokens.Inc()
	m.TokenLength.Observe(float64(len(token)))
}

// ObserveScale implements stats.Observer.
func (m *Metrics) ObserveScale(int) {
	m.Scales.Inc()
}

// RecordRow publishes one result row.
func (m *Metrics) RecordRow(row stats.Row) {
	label := strconv.Itoa(row.WindowSize)
	m.WindowCount.WithLabelValues(label).Set(float64(row.WindowCount))
	m.AverageUnique.WithLabelValues(label).Set(row.AverageUniqueTokensPerWindow)
}

// WriteTextfile dumps everything in g to path in the text exposition
// format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
