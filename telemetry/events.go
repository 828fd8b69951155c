// Package telemetry provides event collection, window stats, and output sinks.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBorn EventType = iota
	EventDied
)

// String returns the event type name used in persisted sinks.
func (t EventType) String() string {
	switch t {
	case EventBorn:
		return "born"
	case EventDied:
		return "died"
	default:
		return "unknown"
	}
}

// Event represents a single agent lifecycle event.
type Event struct {
	Type       EventType `json:"type"`
	Tick       int64     `json:"tick"`
	AgentID    uint32    `json:"agent_id"`
	Generation int32     `json:"generation"`

	// Death-only fields
	Age   float32 `json:"age,omitempty"`
	Cause string  `json:"cause,omitempty"`
}

// NewBornEvent creates an agent-born event.
func NewBornEvent(tick int64, agentID uint32, generation int32) Event {
	return Event{
		Type:       EventBorn,
		Tick:       tick,
		AgentID:    agentID,
		Generation: generation,
	}
}

// NewDiedEvent creates an agent-died event.
func NewDiedEvent(tick int64, agentID uint32, generation int32, age float32, cause string) Event {
	return Event{
		Type:       EventDied,
		Tick:       tick,
		AgentID:    agentID,
		Generation: generation,
		Age:        age,
		Cause:      cause,
	}
}
