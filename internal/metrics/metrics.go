// Package metrics exposes the service's Prometheus counters on a private
// registry. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dicearena"

type Metrics struct {
	registry        *prometheus.Registry
	tournamentReads *prometheus.CounterVec
	xpClaims        *prometheus.CounterVec
	authTokens      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tournamentReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournament_reads_total",
			Help:      "Tournament reads by operation and result.",
		}, []string{"op", "result"}),
		xpClaims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xp_claims_total",
			Help:      "XP claim attempts by result.",
		}, []string{"result"}),
		authTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_tokens_issued_total",
			Help:      "Wallet sign-in attempts by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.tournamentReads,
		m.xpClaims,
		m.authTokens,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) TournamentRead(op, result string) {
	if m == nil {
		return
	}
	m.tournamentReads.WithLabelValues(op, result).Inc()
}

func (m *Metrics) XPClaim(result string) {
	if m == nil {
		return
	}
	m.xpClaims.WithLabelValues(result).Inc()
}

func (m *Metrics) AuthToken(result string) {
	if m == nil {
		return
	}
	m.authTokens.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
