package logic

import "time"

// Machine decides whether the display is ACTIVE or PASSIVE from motion
// samples and elapsed idle time.
type Machine struct {
	sleepTimeout time.Duration
	debounce     time.Duration

	state     State
	idleStart time.Time

	// Motion debounce: a raw motion sample counts only once motion has been
	// reported continuously for the debounce duration.
	motionPending bool
	motionSince   time.Time
	motionHeld    bool

	startTime     time.Time
	lastHeartbeat time.Time
	eventCounts   EventCounts
}

// NewMachine creates a machine in the ACTIVE state with the idle timer
// started at startTime.
func NewMachine(sleepTimeout, debounce time.Duration, startTime time.Time) *Machine {
	return &Machine{
		sleepTimeout:  sleepTimeout,
		debounce:      debounce,
		state:         StateActive,
		idleStart:     startTime,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process evaluates one motion sample and returns the transitions it caused.
//
// An ACTIVE machine idle for at least the sleep timeout goes PASSIVE. Any
// detected motion restarts the idle timer and wakes a PASSIVE machine, so a
// tick that crosses the timeout with motion present emits SLEEP then WAKE.
func (m *Machine) Process(input Input) []Event {
	detected := m.processMotion(input.Motion, input.Time)

	var events []Event

	if m.state == StateActive && input.Time.Sub(m.idleStart) >= m.sleepTimeout {
		m.state = StatePassive
		m.eventCounts.Sleep++
		events = append(events, m.event(EventSleep, input.Time))
	}

	if detected {
		if m.state == StatePassive {
			m.state = StateActive
			m.eventCounts.Wake++
			events = append(events, m.event(EventWake, input.Time))
		}
		m.idleStart = input.Time
	}

	return events
}

func (m *Machine) processMotion(motion bool, now time.Time) bool {
	if !motion {
		m.motionPending = false
		m.motionHeld = false
		return false
	}

	if !m.motionPending {
		m.motionPending = true
		m.motionSince = now
	}

	held := now.Sub(m.motionSince) >= m.debounce
	if held && !m.motionHeld {
		m.eventCounts.Motion++
	}
	m.motionHeld = held
	return held
}

func (m *Machine) event(t EventType, now time.Time) Event {
	return Event{
		Timestamp: now,
		Type:      t,
		State:     m.state,
		IdleFor:   now.Sub(m.idleStart),
	}
}

// State returns the current display state.
func (m *Machine) State() State {
	return m.state
}

// IdleFor returns the time since motion was last detected (or since start).
func (m *Machine) IdleFor(now time.Time) time.Duration {
	return now.Sub(m.idleStart)
}

// SleepTimeout returns the configured idle time before going PASSIVE.
func (m *Machine) SleepTimeout() time.Duration {
	return m.sleepTimeout
}

// EventCountsSnapshot returns the transition and motion counts since startup.
func (m *Machine) EventCountsSnapshot() EventCounts {
	return m.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (m *Machine) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		State:     m.state,
		Counts:    m.eventCounts,
	}
}
