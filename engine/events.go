package engine

import "time"

// EventType identifies a class of engine event.
type EventType string

const (
	EventStatsUpdated       EventType = "stats_updated"
	EventOrdersUpdated      EventType = "orders_updated"
	EventMetricsUpdated     EventType = "metrics_updated"
	EventAutoRefreshChanged EventType = "auto_refresh_changed"
	EventCommandExecuted    EventType = "command_executed"
)

// Event is the envelope dispatched on the EventBus.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   any
}

// ResourceUpdatedEvent fires after every completed fetch of a monitored
// resource, success or failure. Data carries the current snapshot.
type ResourceUpdatedEvent struct {
	Resource  string    `json:"resource"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
	Data      any       `json:"data,omitempty"`
}

// AutoRefreshChangedEvent fires when the dashboard auto-refresh toggle flips.
type AutoRefreshChangedEvent struct {
	Enabled bool `json:"enabled"`
}

// CommandExecutedEvent fires after a command round-trip to the backend.
type CommandExecutedEvent struct {
	CommandID string `json:"commandId"`
	Action    string `json:"action"`
	Target    string `json:"target,omitempty"`
	Outcome   string `json:"outcome"`
	Detail    string `json:"detail,omitempty"`
}
