package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the counters below.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeIgnored = "ignored"
)

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Chat commands handled, by command and outcome.",
		},
		[]string{"command", "outcome"},
	)

	authAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reddit_auth_attempts_total",
			Help: "Password-grant token requests, by outcome.",
		},
		[]string{"outcome"},
	)

	fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reddit_fetch_total",
			Help: "Subreddit listing fetches, by collector mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reddit_fetch_duration_seconds",
			Help:    "Subreddit listing fetch latency.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"mode"},
	)
)

func IncCommand(command, outcome string) {
	commandsTotal.WithLabelValues(command, outcome).Inc()
}

func IncAuthAttempt(outcome string) {
	authAttemptsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records one listing fetch that started at start.
func ObserveFetch(mode, outcome string, start time.Time) {
	fetchTotal.WithLabelValues(mode, outcome).Inc()
	fetchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}
