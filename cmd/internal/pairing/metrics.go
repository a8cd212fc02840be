package pairing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the broker's Prometheus instruments. Instances register
// against a caller-supplied registerer so tests can use isolated registries.
type Metrics struct {
	ActiveConnections prometheus.Gauge
	WaitingClients    *prometheus.GaugeVec

	MatchesTotal     prometheus.Counter
	MessagesTotal    prometheus.Counter
	TypingTotal      prometheus.Counter
	SkipsTotal       prometheus.Counter
	PartnerLeftTotal prometheus.Counter
}

// NewMetrics constructs and registers the broker metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "pairup",
			Name:      "active_connections",
			Help:      "Number of live websocket connections.",
		}),
		WaitingClients: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pairup",
			Name:      "waiting_clients",
			Help:      "Number of clients waiting for a partner, by gender class.",
		}, []string{"gender"}),
		MatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pairup",
			Name:      "matches_total",
			Help:      "Total pairings formed.",
		}),
		MessagesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pairup",
			Name:      "messages_total",
			Help:      "Total chat messages relayed.",
		}),
		TypingTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pairup",
			Name:      "typing_total",
			Help:      "Total typing indicators relayed.",
		}),
		SkipsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pairup",
			Name:      "skips_total",
			Help:      "Total skip requests handled.",
		}),
		PartnerLeftTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pairup",
			Name:      "partner_left_total",
			Help:      "Total partner-left notifications emitted.",
		}),
	}
}
