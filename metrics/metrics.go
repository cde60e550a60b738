// Package metrics registers the Prometheus collectors GameData and
// the CLI front-end report through, mirroring the teacher's root-level
// metrics.go registration pattern.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every collector a GameData instance reports through.
// A nil *Metrics is valid and every method on it is a no-op, so wiring
// metrics is opt-in (sqpack.WithMetrics).
type Metrics struct {
	Reads             *prometheus.CounterVec
	CacheHits         *prometheus.CounterVec
	CacheMisses       *prometheus.CounterVec
	DecompressedBytes prometheus.Counter
	SheetLoads        *prometheus.CounterVec
	OpenHandles       prometheus.Gauge
}

// New constructs and registers a Metrics against reg. Pass
// prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to publish on the default /metrics path.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqpack",
			Name:      "reads_total",
			Help:      "Total number of GameData.Read calls, by category and outcome.",
		}, []string{"category", "outcome"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqpack",
			Name:      "index_cache_hits_total",
			Help:      "Index-entry lookups served from an already-parsed .index/.index2 table.",
		}, []string{"variant"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqpack",
			Name:      "index_cache_misses_total",
			Help:      "Index-entry lookups that required parsing a new .index/.index2 table.",
		}, []string{"variant"}),
		DecompressedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sqpack",
			Name:      "decompressed_bytes_total",
			Help:      "Total bytes produced by payload block decompression.",
		}),
		SheetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sqpack",
			Name:      "sheet_loads_total",
			Help:      "Total ReadSheet calls, by sheet name and outcome.",
		}, []string{"sheet", "outcome"}),
		OpenHandles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sqpack",
			Name:      "open_dat_handles",
			Help:      "Number of .datN file handles currently cached open.",
		}),
	}

	reg.MustRegister(m.Reads, m.CacheHits, m.CacheMisses, m.DecompressedBytes, m.SheetLoads, m.OpenHandles)
	return m
}

func (m *Metrics) observeRead(category, outcome string) {
	if m == nil {
		return
	}
	m.Reads.WithLabelValues(category, outcome).Inc()
}

// ObserveRead records the outcome ("ok", "not_found", "error") of a
// Read call for category.
func (m *Metrics) ObserveRead(category, outcome string) {
	m.observeRead(category, outcome)
}

// ObserveCacheHit records an index lookup served from cache.
func (m *Metrics) ObserveCacheHit(variant string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(variant).Inc()
}

// ObserveCacheMiss records an index lookup that required a parse.
func (m *Metrics) ObserveCacheMiss(variant string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(variant).Inc()
}

// AddDecompressedBytes adds n to the running decompressed-bytes total.
func (m *Metrics) AddDecompressedBytes(n int) {
	if m == nil {
		return
	}
	m.DecompressedBytes.Add(float64(n))
}

// ObserveSheetLoad records the outcome of a ReadSheet call for sheet.
func (m *Metrics) ObserveSheetLoad(sheet, outcome string) {
	if m == nil {
		return
	}
	m.SheetLoads.WithLabelValues(sheet, outcome).Inc()
}

// SetOpenHandles sets the current open-.datN-handle gauge.
func (m *Metrics) SetOpenHandles(n int) {
	if m == nil {
		return
	}
	m.OpenHandles.Set(float64(n))
}
