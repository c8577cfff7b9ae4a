package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the watcher instrumentation so tests can use their own
// registry instead of the global one.
type Metrics struct {
	FetchTotal  *prometheus.CounterVec
	RefreshDur  prometheus.Summary
	LastSuccess *prometheus.GaugeVec
	Balance     *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "walletwatch",
			Name:      "fetch_total",
			Help:      "Number of provider fetches by status",
		}, []string{"provider", "status"}),
		RefreshDur: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: "walletwatch",
			Name:      "refresh_duration_seconds",
			Help:      "Time spent on a full refresh pass",
		}),
		LastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "walletwatch",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last successful fetch per provider",
		}, []string{"provider"}),
		Balance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "walletwatch",
			Name:      "address_balance",
			Help:      "Last observed balance in the coin's native unit",
		}, []string{"coin", "address"}),
	}
	reg.MustRegister(m.FetchTotal, m.RefreshDur, m.LastSuccess, m.Balance)
	return m
}
