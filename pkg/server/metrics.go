package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matst80/magic-search/pkg/types"
)

var (
	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "magicsearch_sessions_created_total",
		Help: "The total number of created search sessions",
	})
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "magicsearch_sessions_active",
		Help: "The number of live search sessions",
	})
	sweptSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "magicsearch_sessions_swept_total",
		Help: "The total number of sessions dropped for being idle",
	})
	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "magicsearch_transitions_total",
		Help: "The total number of session transitions by action",
	}, []string{"action"})
	emittedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "magicsearch_events_total",
		Help: "The total number of emitted session events by kind",
	}, []string{"kind"})
	facetReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "magicsearch_facet_reloads_total",
		Help: "The total number of applied facet definition changes",
	})
)

func countEvents(events []types.Event) {
	for _, e := range events {
		emittedEvents.WithLabelValues(string(e.Kind)).Inc()
	}
}
