// metrics — Prometheus-коллекторы админки: вызовы удалённого API и действия жизненного цикла.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — набор коллекторов. Нулевой *Metrics допустим: все методы становятся no-op.
type Metrics struct {
	remoteRequests *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	actions        *prometheus.CounterVec
}

// New создаёт коллекторы и регистрирует их в reg (nil — prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		remoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kickoffzone_admin",
			Name:      "remote_requests_total",
			Help:      "Requests to the content API by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		remoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kickoffzone_admin",
			Name:      "remote_request_duration_seconds",
			Help:      "Content API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kickoffzone_admin",
			Name:      "lifecycle_actions_total",
			Help:      "Moderation actions by kind, action and outcome.",
		}, []string{"kind", "action", "outcome"}),
	}

	reg.MustRegister(m.remoteRequests, m.remoteDuration, m.actions)

	return m
}

// ObserveRemote — один вызов удалённого API.
// outcome: ok | transport | application.
func (m *Metrics) ObserveRemote(endpoint, outcome string, dur time.Duration) {
	if m == nil {
		return
	}

	m.remoteRequests.WithLabelValues(endpoint, outcome).Inc()
	m.remoteDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
}

// ObserveAction — одно действие модератора.
// outcome: ok | validation | transport | application | declined.
func (m *Metrics) ObserveAction(kind, action, outcome string) {
	if m == nil {
		return
	}

	m.actions.WithLabelValues(kind, action, outcome).Inc()
}
