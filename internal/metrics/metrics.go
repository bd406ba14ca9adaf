// Package metrics holds the counters every relayer service reports.
package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const namespace = "relayer"

// Metrics contains the metrics exposed by the relayer services.
type Metrics struct {
	// Sequences handed out, by pair.
	SequencesIssued metrics.Counter
	// Mutations applied to the table store or the in-memory book, by pair and method.
	MutationsApplied metrics.Counter
	// Mutations dropped by a guard, by pair and reason.
	MutationsDropped metrics.Counter
	// Queue items pushed back after a failed apply, by pair.
	QueueRetries metrics.Counter
	// Matches found by the matching engine, by pair.
	MatchesFound metrics.Counter
	// Snapshot versions published, by pair.
	SnapshotVersion metrics.Gauge
	// Reconnect attempts of outbound connections, by target.
	ReconnectAttempts metrics.Counter
	// Resubscriptions triggered by a detected gap, by pair.
	Resubscribes metrics.Counter
}

// PrometheusMetrics returns Metrics registered on the default Prometheus
// registry. Call it once per process.
func PrometheusMetrics(subsystem string) *Metrics {
	return &Metrics{
		SequencesIssued: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sequences_issued_total",
			Help:      "Number of sequences handed out.",
		}, []string{"pair"}),
		MutationsApplied: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mutations_applied_total",
			Help:      "Number of order mutations applied.",
		}, []string{"pair", "method"}),
		MutationsDropped: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mutations_dropped_total",
			Help:      "Number of order mutations dropped by a guard.",
		}, []string{"pair", "reason"}),
		QueueRetries: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_retries_total",
			Help:      "Number of queue items re-staged after a failed apply.",
		}, []string{"pair"}),
		MatchesFound: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "matches_found_total",
			Help:      "Number of matches found.",
		}, []string{"pair"}),
		SnapshotVersion: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "snapshot_version",
			Help:      "Version of the last published order book snapshot or update.",
		}, []string{"pair"}),
		ReconnectAttempts: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconnect_attempts_total",
			Help:      "Number of reconnect attempts.",
		}, []string{"target"}),
		Resubscribes: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resubscribes_total",
			Help:      "Number of resubscriptions after a gap.",
		}, []string{"pair"}),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		SequencesIssued:   discard.NewCounter(),
		MutationsApplied:  discard.NewCounter(),
		MutationsDropped:  discard.NewCounter(),
		QueueRetries:      discard.NewCounter(),
		MatchesFound:      discard.NewCounter(),
		SnapshotVersion:   discard.NewGauge(),
		ReconnectAttempts: discard.NewCounter(),
		Resubscribes:      discard.NewCounter(),
	}
}
