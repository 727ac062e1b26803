// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sweeney/smart-mirror/internal/ambient"
	"github.com/sweeney/smart-mirror/internal/logic"
)

// DefaultTopicPrefix is the topic root used when none is configured.
const DefaultTopicPrefix = "home/mirror"

// Topics are the MQTT topics the mirror publishes to.
type Topics struct {
	Display string // SLEEP/WAKE transitions
	Ambient string // temperature/humidity readings
	System  string // lifecycle events
}

// NewTopics derives the topic set from a prefix.
func NewTopics(prefix string) Topics {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{
		Display: prefix + "/display",
		Ambient: prefix + "/ambient",
		System:  prefix + "/system",
	}
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a display transition to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishAmbient sends a fresh ambient reading.
	PublishAmbient(r ambient.Reading) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload for a display transition.
type Payload struct {
	Display DisplayPayload `json:"display"`
}

// DisplayPayload contains the transition details.
type DisplayPayload struct {
	Timestamp   string  `json:"timestamp"`
	Event       string  `json:"event"`
	State       string  `json:"state"`
	IdleSeconds float64 `json:"idle_seconds"`
}

// FormatPayload creates the JSON payload for a display transition.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Display: DisplayPayload{
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
			Event:       string(event.Type),
			State:       string(event.State),
			IdleSeconds: event.IdleFor.Round(100 * time.Millisecond).Seconds(),
		},
	}
	return json.Marshal(payload)
}

// AmbientPayload is the MQTT payload for an ambient reading.
type AmbientPayload struct {
	Ambient AmbientInner `json:"ambient"`
}

// AmbientInner contains the reading.
type AmbientInner struct {
	Timestamp    string  `json:"timestamp"`
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
}

// FormatAmbientPayload creates the JSON payload for an ambient reading.
func FormatAmbientPayload(r ambient.Reading) ([]byte, error) {
	return json.Marshal(AmbientPayload{
		Ambient: AmbientInner{
			Timestamp:    r.CapturedAt.UTC().Format(time.RFC3339),
			TemperatureC: r.Temperature,
			HumidityPct:  r.Humidity,
		},
	})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
