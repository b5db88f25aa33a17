package metrics

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type manager struct {
	namespace string
	system    string
	registry  *prometheus.Registry
}

var (
	mu             sync.RWMutex
	defaultManager = &manager{
		namespace: "agentic_social",
		system:    "default",
		registry:  prometheus.NewRegistry(),
	}
)

func RegisterGoMetrics(r prometheus.Registerer) {
	r.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// SetupMetricsManager 替换默认 registry, 之后创建的指标都注册到新的 registry
func SetupMetricsManager(ns, system string, registry *prometheus.Registry) {
	mu.Lock()
	defer mu.Unlock()
	defaultManager = &manager{
		namespace: ns,
		system:    system,
		registry:  registry,
	}
	RegisterGoMetrics(registry)
}

func current() *manager {
	mu.RLock()
	defer mu.RUnlock()
	return defaultManager
}

// Registry 当前使用的 registry
func Registry() *prometheus.Registry {
	return current().registry
}

func opts(name, kind string) (string, string, string, string) {
	m := current()
	return FmtFixer(m.namespace), FmtFixer(m.system), FmtFixer(name), fmt.Sprintf("%s %s of /%s/%s", name, kind, m.namespace, m.system)
}

// register 重复注册时返回已存在的指标
func register[T prometheus.Collector](c T) T {
	if err := Registry().Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func NewCounterVec(name string, labels []string) *prometheus.CounterVec {
	ns, system, metricName, help := opts(name, "count")
	return register(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: system,
		Name:      metricName,
		Help:      help,
	}, labels))
}

// NewHistogramVec buckets 为空时使用 prometheus 默认值
func NewHistogramVec(name string, labels []string, buckets ...float64) *prometheus.HistogramVec {
	ns, system, metricName, help := opts(name, "duration")
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	return register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Subsystem: system,
		Name:      metricName,
		Help:      help,
		Buckets:   buckets,
	}, labels))
}

func NewGaugeVec(name string, labels []string) *prometheus.GaugeVec {
	ns, system, metricName, help := opts(name, "gauge")
	return register(prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: ns,
		Subsystem: system,
		Name:      metricName,
		Help:      help,
	}, labels))
}

func DefaultExportHandler() gin.HandlerFunc {
	registry := Registry()
	h := promhttp.InstrumentMetricHandler(registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func FmtFixer(in string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(in)
}
