// Package metrics exposes the bridge's Prometheus counters. The module's
// dependency on github.com/prometheus/client_golang is carried from the
// teacher's go.mod; this package is its first concrete user, wired via
// promauto the way the ecosystem registers process-wide collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finality_bridge"

var (
	BridgeInitializations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bridge_initializations_total",
		Help:      "Number of bridges successfully initialized.",
	})

	JustificationsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "justifications_accepted_total",
		Help:      "Number of finality justifications that passed verification.",
	})

	JustificationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "justifications_rejected_total",
		Help:      "Number of finality justifications rejected, by reason code.",
	}, []string{"reason"})

	StorageProofsChecked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_proofs_checked_total",
		Help:      "Number of storage proofs checked, by outcome.",
	}, []string{"outcome"})

	TrackedBridges = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracked_bridges",
		Help:      "Current number of bridges tracked by the registry.",
	})
)

// ObserveJustificationRejected records a rejection under reason, the
// bridgeerr.Code string of the error that caused it.
func ObserveJustificationRejected(reason string) {
	JustificationsRejected.WithLabelValues(reason).Inc()
}

// ObserveStorageProofChecked records a storage-proof check outcome, "ok" or
// "rejected".
func ObserveStorageProofChecked(ok bool) {
	outcome := "rejected"
	if ok {
		outcome = "ok"
	}
	StorageProofsChecked.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler serving the process's metrics in the
// Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
