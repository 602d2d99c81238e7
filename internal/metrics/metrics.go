// internal/metrics/metrics.go
// Package metrics centralises Prometheus metric registration for fjagego
// gateway clients. It exposes typed collectors and a Register entry point
// so callers stay import-cycle-free, grounded on the teacher's
// internal/metrics/prom.go (same sync.Once-guarded MustRegister pattern,
// same split between always-on collectors and a Register() entry point),
// repurposed from runtime/flamegraph metrics to gateway traffic and
// resource metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// MessagesSentTotal counts frames written to the transport.
	MessagesSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fjage",
		Subsystem: "gateway",
		Name:      "messages_sent_total",
		Help:      "Total number of message frames sent to the platform.",
	})

	// MessagesReceivedTotal counts frames read off the transport.
	MessagesReceivedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fjage",
		Subsystem: "gateway",
		Name:      "messages_received_total",
		Help:      "Total number of message frames received from the platform.",
	})

	// PendingCorrelations tracks the current size of the platform-query
	// correlator's pending table (agents/services/... round trips).
	// Request/reply no longer correlates separately; it shares the receiver
	// pool with Receive.
	PendingCorrelations = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fjage",
		Subsystem: "gateway",
		Name:      "pending_correlations",
		Help:      "Number of outstanding platform metadata queries awaiting a match.",
	})

	// InboxDepth tracks the current number of unsolicited messages queued
	// in the inbox.
	InboxDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fjage",
		Subsystem: "gateway",
		Name:      "inbox_depth",
		Help:      "Number of messages currently queued in the inbox.",
	})

	// InboxDroppedTotal counts messages evicted from the inbox because it
	// was at capacity when a new one arrived.
	InboxDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fjage",
		Subsystem: "gateway",
		Name:      "inbox_dropped_total",
		Help:      "Total number of messages dropped from the inbox due to overflow.",
	})

	// ReconnectsTotal counts transport reconnect attempts that succeeded.
	ReconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fjage",
		Subsystem: "gateway",
		Name:      "reconnects_total",
		Help:      "Total number of successful transport reconnections.",
	})
)

// Register exports all metrics; safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			MessagesSentTotal,
			MessagesReceivedTotal,
			PendingCorrelations,
			InboxDepth,
			InboxDroppedTotal,
			ReconnectsTotal,
		)
	})
}
