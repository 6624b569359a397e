package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GuardDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_guard_decisions_total",
		Help: "Route guard outcomes by guard.",
	}, []string{"guard", "outcome"})

	TranslateRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_translate_requests_total",
		Help: "Translation proxy requests by outcome.",
	}, []string{"outcome"})

	DocumentLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_document_loads_total",
		Help: "Page data loads by loader and result.",
	}, []string{"loader", "result"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_logins_total",
		Help: "Login attempts by kind and outcome.",
	}, []string{"kind", "outcome"})
)
