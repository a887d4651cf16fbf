package domain

// EventType identifies a hub notification.
type EventType string

const (
	// EventConnected is sent once to a client right after registration.
	EventConnected EventType = "connected"
	// EventRefresh signals that the rendered view changed.
	EventRefresh EventType = "refresh"
	// EventHeartbeat is a periodic keep-alive, independent of data changes.
	EventHeartbeat EventType = "heartbeat"
)

// Event is one notification delivered to streaming clients.
type Event struct {
	Type EventType `json:"type"`
}
