package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the dashboard's collectors.
	Registry = prometheus.NewRegistry()

	mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invoicedash",
			Subsystem: "invoice",
			Name:      "mutations_total",
			Help:      "Invoice mutations by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	routeCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invoicedash",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Route cache lookups by result.",
		},
		[]string{"result"},
	)

	signIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "invoicedash",
			Subsystem: "auth",
			Name:      "signins_total",
			Help:      "Sign-in attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		mutations,
		routeCache,
		signIns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordMutation counts one invoice mutation. outcome is redirect, done,
// invalid or failed.
func RecordMutation(op, outcome string) {
	mutations.WithLabelValues(op, outcome).Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		routeCache.WithLabelValues("hit").Inc()
		return
	}
	routeCache.WithLabelValues("miss").Inc()
}

// RecordSignIn counts a sign-in attempt: ok, rejected or error.
func RecordSignIn(result string) {
	signIns.WithLabelValues(result).Inc()
}
