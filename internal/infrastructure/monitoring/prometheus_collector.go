package monitoring

import (
	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	tokensIssuedTotal     prometheus.Counter
	activeSessions        prometheus.Gauge
	gateDecisionsTotal    *prometheus.CounterVec
	rateLimitRejectsTotal *prometheus.CounterVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		tokensIssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediagate_tokens_issued_total",
			Help: "Total number of access tokens issued",
		}),

		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mediagate_active_stream_sessions",
			Help: "Number of currently admitted playback sessions",
		}),

		gateDecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediagate_gate_decisions_total",
			Help: "Gatekeeper decisions by outcome",
		}, []string{"outcome"}),

		rateLimitRejectsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediagate_rate_limit_rejections_total",
			Help: "Fixed-window rate limit rejections by endpoint class",
		}, []string{"class"}),
	}
}

var _ ports.MetricsRecorder = (*PrometheusCollector)(nil)

func (c *PrometheusCollector) TokenIssued() {
	c.tokensIssuedTotal.Inc()
}

func (c *PrometheusCollector) GateDecision(outcome domain.Outcome) {
	c.gateDecisionsTotal.WithLabelValues(string(outcome)).Inc()
}

func (c *PrometheusCollector) SessionAdmitted() {
	c.activeSessions.Inc()
}

func (c *PrometheusCollector) SessionReleased() {
	c.activeSessions.Dec()
}

func (c *PrometheusCollector) RateLimitRejected(class string) {
	c.rateLimitRejectsTotal.WithLabelValues(class).Inc()
}
