package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connection metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_connections_active",
			Help: "Currently open websocket connections",
		},
	)

	SessionsJoined = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_sessions_joined",
			Help: "Connections that have joined with a profile",
		},
	)

	// Protocol metrics
	CommandsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_commands_received_total",
			Help: "Inbound commands by event name",
		},
		[]string{"command"},
	)

	EventsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_broadcast_total",
			Help: "Events fanned out to joined sessions, by event name",
		},
		[]string{"event"},
	)

	FramesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_frames_dropped_total",
			Help: "Frames dropped because a session's send buffer was full",
		},
	)

	// Store metrics
	MessagesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_messages_created_total",
			Help: "Top-level messages created",
		},
	)

	RepliesAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_replies_added_total",
			Help: "Replies appended to messages",
		},
	)

	ReactionsToggled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_reactions_toggled_total",
			Help: "Reaction set toggles applied",
		},
	)
)
