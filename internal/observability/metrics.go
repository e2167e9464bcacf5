package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

// Metrics holds the service's Prometheus collectors. Every method is safe on a nil
// receiver so callers can run with metrics disabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	recordsCreated     *prometheus.CounterVec
	writeConflicts     *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	viewCache          *prometheus.CounterVec

	records *prometheus.GaugeVec
	dbStats *prometheus.GaugeVec
	redisUp prometheus.Gauge
	redisRT prometheus.Gauge

	scrapeEvery time.Duration
}

// New builds and registers the collectors on a fresh registry.
func New(scrapeEvery time.Duration) (*Metrics, error) {
	if scrapeEvery <= 0 {
		scrapeEvery = 10 * time.Second
	}
	m := &Metrics{
		registry:    prometheus.NewRegistry(),
		scrapeEvery: scrapeEvery,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mavedb_http_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mavedb_http_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mavedb_http_inflight_requests",
			Help: "In-flight API requests.",
		}),
		recordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mavedb_records_created_total",
			Help: "Records created by kind.",
		}, []string{"kind"}),
		writeConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mavedb_write_conflicts_total",
			Help: "Writes rejected by a uniqueness or supersession conflict, by kind.",
		}, []string{"kind"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mavedb_validation_failures_total",
			Help: "Request payloads rejected by validation, by model.",
		}, []string{"model"}),
		viewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mavedb_view_cache_lookups_total",
			Help: "Score set view cache lookups by result.",
		}, []string{"result"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mavedb_records",
			Help: "Stored records by kind and visibility.",
		}, []string{"kind", "private"}),
		dbStats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mavedb_db_stats",
			Help: "Database connection pool stats.",
		}, []string{"metric"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mavedb_redis_up",
			Help: "Redis connectivity (1=up, 0=down).",
		}),
		redisRT: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mavedb_redis_ping_seconds",
			Help: "Redis ping latency in seconds.",
		}),
	}
	collectors := []prometheus.Collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.recordsCreated, m.writeConflicts, m.validationFailures, m.viewCache,
		m.records, m.dbStats, m.redisUp, m.redisRT,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncRecordCreated(kind string) {
	if m == nil {
		return
	}
	m.recordsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncWriteConflict(kind string) {
	if m == nil {
		return
	}
	m.writeConflicts.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncValidationFailure(model string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(model).Inc()
}

func (m *Metrics) ObserveViewCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.viewCache.WithLabelValues(result).Inc()
}

// StartDBCollector samples connection pool stats until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
				m.dbStats.WithLabelValues("max_open_connections").Set(float64(stats.MaxOpenConnections))
			}
		}
	}()
}

// StartRecordCollector periodically counts experiments, score sets and variants.
func (m *Metrics) StartRecordCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.CollectRecords(ctx, db); err != nil && log != nil {
					log.Warn("metrics: record count query failed", "error", err)
				}
			}
		}
	}()
}

// CollectRecords refreshes the record gauges once.
func (m *Metrics) CollectRecords(ctx context.Context, db *gorm.DB) error {
	if m == nil {
		return nil
	}
	for kind, model := range map[string]any{
		"experiment_set": &types.ExperimentSet{},
		"experiment":     &types.Experiment{},
		"score_set":      &types.ScoreSet{},
	} {
		var rows []struct {
			Private bool
			Count   int64
		}
		if err := db.WithContext(ctx).
			Model(model).
			Select("private, count(*) as count").
			Group("private").
			Scan(&rows).Error; err != nil {
			return err
		}
		m.records.WithLabelValues(kind, "true").Set(0)
		m.records.WithLabelValues(kind, "false").Set(0)
		for _, row := range rows {
			m.records.WithLabelValues(kind, strconv.FormatBool(row.Private)).Set(float64(row.Count))
		}
	}
	var variants int64
	if err := db.WithContext(ctx).Model(&types.Variant{}).Count(&variants).Error; err != nil {
		return err
	}
	m.records.WithLabelValues("variant", "").Set(float64(variants))
	return nil
}

// StartRedisCollector pings addr on every scrape interval.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil || addr == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(m.scrapeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisRT.Set(time.Since(start).Seconds())
			}
		}
	}()
}
