// Package metrics 导入任务的Prometheus指标。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"etf-dashboard-backend/internal/model"
)

const namespace = "etf_dashboard"

// Metrics 指标集合，nil 时所有方法为空操作
type Metrics struct {
	registry *prometheus.Registry

	importRows     *prometheus.CounterVec
	importFailures *prometheus.CounterVec
	sourceFailures *prometheus.CounterVec
	importDuration *prometheus.HistogramVec
	storedRecords  *prometheus.GaugeVec
}

// New 创建独立注册表的指标集合
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Rows accepted by importers.",
		}, []string{"entity"}),
		importFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_failures_total",
			Help:      "Imports that produced no usable rows or failed to store.",
		}, []string{"entity"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Source URLs that could not be fetched or returned an error page.",
		}, []string{"entity"}),
		importDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Duration of one entity import.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity"}),
		storedRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_records",
			Help:      "Records held per entity after the last import.",
		}, []string{"entity"}),
	}
	reg.MustRegister(m.importRows, m.importFailures, m.sourceFailures, m.importDuration, m.storedRecords)
	return m
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 用于测试读取指标
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveImport(e model.Entity, rows, total int, d time.Duration) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues(string(e)).Add(float64(rows))
	m.storedRecords.WithLabelValues(string(e)).Set(float64(total))
	m.importDuration.WithLabelValues(string(e)).Observe(d.Seconds())
}

func (m *Metrics) ImportFailed(e model.Entity) {
	if m == nil {
		return
	}
	m.importFailures.WithLabelValues(string(e)).Inc()
}

func (m *Metrics) SourceFailed(e model.Entity) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(string(e)).Inc()
}
