package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics はロスター同期の観測値を Prometheus に公開します。
// roster.MetricsRecorder の実装です。
type Metrics struct {
	registry      *prometheus.Registry
	syncTotal     *prometheus.CounterVec
	syncAdded     prometheus.Counter
	syncRemoved   prometheus.Counter
	syncDurations prometheus.Histogram
}

// New は Metrics を生成しコレクターを登録します。
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		syncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roster",
			Name:      "sync_total",
			Help:      "Number of roster sync runs by outcome.",
		}, []string{"outcome"}),
		syncAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roster",
			Name:      "sync_employees_added_total",
			Help:      "Number of roster records created by sync runs.",
		}),
		syncRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roster",
			Name:      "sync_employees_removed_total",
			Help:      "Number of roster records marked removed by sync runs.",
		}),
		syncDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roster",
			Name:      "sync_duration_seconds",
			Help:      "Duration of roster sync runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(m.syncTotal, m.syncAdded, m.syncRemoved, m.syncDurations)
	return m
}

// ObserveSync は 1 回の同期実行の結果を記録します。
func (m *Metrics) ObserveSync(outcome string, added, removed int, elapsed time.Duration) {
	m.syncTotal.WithLabelValues(outcome).Inc()
	m.syncAdded.Add(float64(added))
	m.syncRemoved.Add(float64(removed))
	m.syncDurations.Observe(elapsed.Seconds())
}

// Handler は /metrics 用の HTTP ハンドラーを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
