package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the portal backend.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration   *prometheus.HistogramVec
	externalErrors    *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	ordersSubmitted   *prometheus.CounterVec
	ordersRejected    *prometheus.CounterVec
	orphanedOrders    prometheus.Counter
	contractsArchived *prometheus.CounterVec
	pageViews         *prometheus.CounterVec
	catalogFallbacks  *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bfa_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		ordersSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_orders_submitted_total",
				Help: "Orders persisted, by form.",
			},
			[]string{"form"},
		),
		ordersRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_orders_rejected_total",
				Help: "Order submissions rejected before any write, by reason.",
			},
			[]string{"reason"},
		),
		orphanedOrders: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bfa_orders_orphaned_total",
				Help: "Orders persisted whose contract insert failed.",
			},
		),
		contractsArchived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_contracts_archived_total",
				Help: "Contract documents written to the archive, by result.",
			},
			[]string{"result"},
		),
		pageViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_page_views_total",
				Help: "Navigation tracking events, by result.",
			},
			[]string{"result"},
		),
		catalogFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_catalog_fallbacks_total",
				Help: "Catalog reads served from the built-in tiers.",
			},
			[]string{"catalog"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrOrderSubmitted counts a persisted order.
func (m *Metrics) IncrOrderSubmitted(form string) {
	m.ordersSubmitted.WithLabelValues(form).Inc()
}

// IncrOrderRejected counts a submission stopped by a precondition or validation.
func (m *Metrics) IncrOrderRejected(reason string) {
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// IncrOrphanedOrder counts an order left without a contract.
func (m *Metrics) IncrOrphanedOrder() {
	m.orphanedOrders.Inc()
}

// IncrContractArchived counts an archive write attempt.
func (m *Metrics) IncrContractArchived(result string) {
	m.contractsArchived.WithLabelValues(result).Inc()
}

// IncrPageView counts a navigation tracking attempt.
func (m *Metrics) IncrPageView(result string) {
	m.pageViews.WithLabelValues(result).Inc()
}

// IncrCatalogFallback counts a catalog read answered with built-in tiers.
func (m *Metrics) IncrCatalogFallback(catalog string) {
	m.catalogFallbacks.WithLabelValues(catalog).Inc()
}

// Snapshot is a point-in-time view of the business counters.
type Snapshot struct {
	OrdersSubmitted  float64 `json:"ordersSubmitted"`
	OrdersOrphaned   float64 `json:"ordersOrphaned"`
	PageViews        float64 `json:"pageViews"`
	PageViewFailures float64 `json:"pageViewFailures"`
	CacheHitRate     float64 `json:"cacheHitRate"`
}

// Snapshot gathers the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	submitted := 0.0
	for _, form := range []string{"pedido", "pedidoCriacao", "pedidoGestao"} {
		submitted += getCounterValue(m.ordersSubmitted, form)
	}

	orphaned := &dto.Metric{}
	_ = m.orphanedOrders.Write(orphaned)

	hits := getCounterValue(m.cacheHits, "catalog")
	misses := getCounterValue(m.cacheMisses, "catalog")
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return Snapshot{
		OrdersSubmitted:  submitted,
		OrdersOrphaned:   orphaned.GetCounter().GetValue(),
		PageViews:        getCounterValue(m.pageViews, "recorded"),
		PageViewFailures: getCounterValue(m.pageViews, "failed"),
		CacheHitRate:     hitRate,
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
