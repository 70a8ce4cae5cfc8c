// Package metrics provides Prometheus metrics for the lobby.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Handshake results
const (
	HandshakeAccepted  = "accepted"
	HandshakeRejected  = "rejected"
	HandshakeDisplaced = "displaced"
	HandshakeFailed    = "failed"
)

var (
	// ActiveSessions tracks players with a live push connection.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mtlobby_active_sessions",
			Help: "Number of players with a live push connection",
		},
	)

	// Handshakes counts REQ_USER_ENTER handshakes by result.
	Handshakes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mtlobby_handshakes_total",
			Help: "Total number of handshakes by result",
		},
		[]string{"result"},
	)

	// Pushes counts server to client events.
	Pushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mtlobby_pushes_total",
			Help: "Total number of events pushed to clients",
		},
		[]string{"event"},
	)

	// DroppedPushes counts events that could not be enqueued.
	DroppedPushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mtlobby_pushes_dropped_total",
			Help: "Total number of events dropped because the connection could not accept them",
		},
		[]string{"event"},
	)

	// MembershipChanges counts side-table add and leave outcomes.
	MembershipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mtlobby_membership_changes_total",
			Help: "Total number of side-table membership operations by kind and outcome",
		},
		[]string{"op", "applied"},
	)
)

// RecordHandshake increments the handshake counter for result.
func RecordHandshake(result string) {
	Handshakes.WithLabelValues(result).Inc()
}

// RecordPush records a push attempt for event.
func RecordPush(event string, err error) {
	if err != nil {
		DroppedPushes.WithLabelValues(event).Inc()
		return
	}
	Pushes.WithLabelValues(event).Inc()
}

// RecordMembership records an add or leave outcome.
func RecordMembership(op string, applied bool) {
	label := "false"
	if applied {
		label = "true"
	}
	MembershipChanges.WithLabelValues(op, label).Inc()
}

// SetActiveSessions sets the live session gauge.
func SetActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}
