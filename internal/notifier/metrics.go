package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// hubMetrics 推送指标，按 feed 区分
type hubMetrics struct {
	published   prometheus.Counter
	delivered   prometheus.Counter
	failed      prometheus.Counter
	subscribers prometheus.Gauge
}

// newHubMetrics 创建指标，registry 为 nil 时只创建不注册
func newHubMetrics(feed string, registry prometheus.Registerer) *hubMetrics {
	factory := promauto.With(registry)
	labels := prometheus.Labels{"feed": feed}

	return &hubMetrics{
		published: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "aidlink",
			Subsystem:   "notifier",
			Name:        "published_total",
			Help:        "Total number of updates published",
			ConstLabels: labels,
		}),
		delivered: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "aidlink",
			Subsystem:   "notifier",
			Name:        "delivered_total",
			Help:        "Total number of callback invocations",
			ConstLabels: labels,
		}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "aidlink",
			Subsystem:   "notifier",
			Name:        "callback_panics_total",
			Help:        "Total number of callbacks that panicked",
			ConstLabels: labels,
		}),
		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   "aidlink",
			Subsystem:   "notifier",
			Name:        "subscribers",
			Help:        "Current number of subscribers",
			ConstLabels: labels,
		}),
	}
}
