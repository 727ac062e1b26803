// Package logic contains the pure display power logic of the mirror.
// This package has NO external dependencies (no GPIO, camera, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State is the display power state.
type State string

const (
	StateActive  State = "ACTIVE"
	StatePassive State = "PASSIVE"
)

// EventType represents a display state transition.
type EventType string

const (
	EventSleep EventType = "SLEEP" // ACTIVE -> PASSIVE, hide panels
	EventWake  EventType = "WAKE"  // PASSIVE -> ACTIVE, show panels
)

// Event represents a state transition to be applied and published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
	// IdleFor is how long no motion had been seen when the event fired.
	IdleFor time.Duration
}

// Input represents a single motion sensor sample.
type Input struct {
	Motion bool
	Time   time.Time
}

// EventCounts tracks the number of transitions and motion detections since startup.
type EventCounts struct {
	Sleep  int
	Wake   int
	Motion int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	State     State
	Counts    EventCounts
}
