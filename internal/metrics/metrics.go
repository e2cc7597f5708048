// Package metrics defines the ambient Prometheus instrumentation a
// Buffer exposes. None of it is load-bearing for spec correctness; it is
// the kind of observability surface this corpus's service-shaped repos
// (quadgatefoundation/fluxor, chiefly) carry as a matter of course.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// BufferMetrics is the per-Buffer metric set. Each Buffer gets its own
// instance rather than sharing package-level globals, so embedding
// multiple buffers in one process doesn't collide on registration.
type BufferMetrics struct {
	Segments   prometheus.Gauge
	CacheHits  prometheus.Counter
	CacheMiss  prometheus.Counter
	SaveTiming prometheus.Histogram
}

// NewBufferMetrics constructs an unregistered metric set; callers that
// want these exported wire them into their own prometheus.Registerer.
func NewBufferMetrics() *BufferMetrics {
	return &BufferMetrics{
		Segments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blessbuf_segments",
			Help: "Number of live segments in the buffer's segment collection.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blessbuf_find_cache_hits_total",
			Help: "Segment-collection find-cache hits.",
		}),
		CacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blessbuf_find_cache_misses_total",
			Help: "Segment-collection find-cache misses.",
		}),
		SaveTiming: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "blessbuf_save_duration_seconds",
			Help: "Time spent in Buffer.Save.",
		}),
	}
}

// Collectors returns every metric so callers can register them in one
// call: registry.MustRegister(m.Collectors()...).
func (m *BufferMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Segments, m.CacheHits, m.CacheMiss, m.SaveTiming}
}

// ObserveCacheHit and ObserveCacheMiss satisfy segcol.CacheObserver by
// structural typing, letting a *BufferMetrics be handed straight to
// SegmentCollection.SetCacheObserver without an adapter type.
func (m *BufferMetrics) ObserveCacheHit()  { m.CacheHits.Inc() }
func (m *BufferMetrics) ObserveCacheMiss() { m.CacheMiss.Inc() }
