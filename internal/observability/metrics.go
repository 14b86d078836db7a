// Package observability exposes the bot's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesHandled counts Telegram updates by kind: command, message or
	// callback.
	UpdatesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activitybot",
		Name:      "updates_handled_total",
		Help:      "Telegram updates processed, by kind.",
	}, []string{"kind"})

	// ActivitiesLogged counts entries written to storage.
	ActivitiesLogged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "activitybot",
		Name:      "activities_logged_total",
		Help:      "Activity entries written to storage.",
	})

	// StorageErrors counts failed storage operations, by operation name.
	StorageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activitybot",
		Name:      "storage_errors_total",
		Help:      "Storage operations that returned an error, by operation.",
	}, []string{"op"})
)
