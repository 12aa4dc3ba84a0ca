// Package metrics exposes the Prometheus collectors for the chat pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CompletionsTotal counts completion calls by provider and outcome
	// ("ok" or "error").
	CompletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "completions_total",
		Help: "Completion API calls by provider and status.",
	}, []string{"provider", "status"})

	// CompletionDuration observes the wall time of completion calls.
	CompletionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "completion_duration_seconds",
		Help:    "Completion API call duration.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"provider"})

	// ChatMessagesTotal counts accepted chat messages.
	ChatMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Chat messages accepted for completion.",
	})

	// CatalogResolutionsTotal counts catalog resolutions; degraded="true"
	// means the custom agent store was unreachable.
	CatalogResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_resolutions_total",
		Help: "Catalog resolutions by degradation state.",
	}, []string{"degraded"})
)
