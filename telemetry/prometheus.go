package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "unarchive"

// Collector holds the prometheus metrics that are fed by [Collector.Hook].
type Collector struct {
	duration *prometheus.HistogramVec
	entries  *prometheus.CounterVec
	errors   *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	runs     *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time the format driver took to extract an archive.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"type"}),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_total",
			Help:      "Archive entries by outcome.",
		}, []string{"type", "outcome"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors raised during extraction.",
		}, []string{"type"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extracted_bytes_total",
			Help:      "Bytes written to the destination.",
		}, []string{"type"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Finished extractions.",
		}, []string{"type"}),
	}

	for _, m := range []prometheus.Collector{c.duration, c.entries, c.errors, c.bytes, c.runs} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Hook returns a [TelemetryHook] that adds d to the metrics.
func (c *Collector) Hook() TelemetryHook {
	return func(ctx context.Context, d *Data) {
		t := d.ExtractedType
		if len(t) == 0 {
			t = "unknown"
		}
		c.runs.WithLabelValues(t).Inc()
		c.duration.WithLabelValues(t).Observe(d.ExtractionDuration.Seconds())
		c.errors.WithLabelValues(t).Add(float64(d.ExtractionErrors))
		c.bytes.WithLabelValues(t).Add(float64(d.ExtractionSize))
		c.entries.WithLabelValues(t, "file").Add(float64(d.ExtractedFiles))
		c.entries.WithLabelValues(t, "dir").Add(float64(d.ExtractedDirs))
		c.entries.WithLabelValues(t, "symlink").Add(float64(d.ExtractedSymlinks))
		c.entries.WithLabelValues(t, "unselected").Add(float64(d.SelectorMismatches))
		c.entries.WithLabelValues(t, "filtered").Add(float64(d.FilteredEntries))
		c.entries.WithLabelValues(t, "up_to_date").Add(float64(d.SkippedUpToDate))
		c.entries.WithLabelValues(t, "unsupported").Add(float64(d.UnsupportedFiles))
	}
}

// Chain combines hooks into one that calls them in order.
func Chain(hooks ...TelemetryHook) TelemetryHook {
	return func(ctx context.Context, d *Data) {
		for _, h := range hooks {
			if h != nil {
				h(ctx, d)
			}
		}
	}
}
