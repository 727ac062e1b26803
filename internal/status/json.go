package status

import (
	"encoding/json"
	"math"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string          `json:"event,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	BootID        string          `json:"boot_id"`
	State         string          `json:"state"`
	PanelsShown   bool            `json:"panels_shown"`
	Panels        map[string]bool `json:"panels"`
	IdleSeconds   float64         `json:"idle_seconds"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	StartTime     string          `json:"start_time"`
	Timestamp     string          `json:"timestamp"`
	MQTT          MQTTStatus      `json:"mqtt"`
	Counts        CountsJSON      `json:"event_counts"`
	Ambient       *AmbientJSON    `json:"ambient,omitempty"`
	Thermal       *ThermalJSON    `json:"thermal,omitempty"`
	Pipeline      PipelineJSON    `json:"pipeline"`
	Network       *NetworkJSON    `json:"network,omitempty"`
	Config        ConfigJSON      `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Sleep  int `json:"sleep"`
	Wake   int `json:"wake"`
	Motion int `json:"motion"`
}

// AmbientJSON is the JSON representation of an ambient reading.
type AmbientJSON struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	CapturedAt   string  `json:"captured_at"`
}

// PointJSON is a temperature extreme in the rendered frame.
type PointJSON struct {
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Fahrenheit  float64 `json:"fahrenheit"`
	CentiKelvin uint16  `json:"centikelvin"`
}

// ThermalJSON is the JSON representation of the latest frame.
type ThermalJSON struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Min        PointJSON `json:"min"`
	Max        PointJSON `json:"max"`
	RenderedAt string    `json:"rendered_at"`
}

// PipelineJSON is the JSON representation of the pipeline counters.
type PipelineJSON struct {
	Received  uint64 `json:"received"`
	Malformed uint64 `json:"malformed"`
	Enqueued  uint64 `json:"enqueued"`
	Dropped   uint64 `json:"dropped"`
	Queued    int    `json:"queued"`
	Rendered  uint64 `json:"rendered"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of the mirror config.
type ConfigJSON struct {
	SleepTimeoutMs    int64  `json:"sleep_timeout_ms"`
	FrameTimeMs       int64  `json:"frame_time_ms"`
	AmbientPollMs     int64  `json:"ambient_poll_ms"`
	HeartbeatMs       int64  `json:"heartbeat_ms"`
	QueueCapacity     int    `json:"queue_capacity"`
	CameraDriver      string `json:"camera_driver"`
	MotionDriver      string `json:"motion_driver"`
	AmbientDriver     string `json:"ambient_driver,omitempty"`
	Broker            string `json:"broker"`
	HTTPAddr          string `json:"http_addr"`
	UseHumiditySensor bool   `json:"use_humidity_sensor"`
	DebugPanel        bool   `json:"display_debug_panel"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}
	panels := snap.Panels
	if panels == nil {
		panels = map[string]bool{}
	}

	c := snap.Config
	inner := StatusInner{
		BootID:        snap.BootID,
		State:         state,
		PanelsShown:   snap.PanelsShown,
		Panels:        panels,
		IdleSeconds:   snap.IdleFor.Round(100 * time.Millisecond).Seconds(),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: c.Broker},
		Counts: CountsJSON{
			Sleep:  snap.Counts.Sleep,
			Wake:   snap.Counts.Wake,
			Motion: snap.Counts.Motion,
		},
		Pipeline: PipelineJSON(snap.Pipeline),
		Config: ConfigJSON{
			SleepTimeoutMs:    c.SleepTimeout.Milliseconds(),
			FrameTimeMs:       c.FrameTime.Milliseconds(),
			AmbientPollMs:     c.AmbientPoll.Milliseconds(),
			HeartbeatMs:       c.Heartbeat.Milliseconds(),
			QueueCapacity:     c.QueueCapacity,
			CameraDriver:      c.CameraDriver,
			MotionDriver:      c.MotionDriver,
			AmbientDriver:     c.AmbientDriver,
			Broker:            c.Broker,
			HTTPAddr:          c.HTTPAddr,
			UseHumiditySensor: c.UseHumiditySensor,
			DebugPanel:        c.DebugPanel,
		},
	}

	if snap.Ambient != nil {
		inner.Ambient = &AmbientJSON{
			TemperatureC: snap.Ambient.Temperature,
			HumidityPct:  snap.Ambient.Humidity,
			CapturedAt:   snap.Ambient.CapturedAt.UTC().Format(time.RFC3339),
		}
	}
	if th := snap.Thermal; th != nil {
		inner.Thermal = &ThermalJSON{
			Width:      th.Width,
			Height:     th.Height,
			Min:        PointJSON{th.Min.Point.X, th.Min.Point.Y, round1(th.Min.Value.Fahrenheit()), uint16(th.Min.Value)},
			Max:        PointJSON{th.Max.Point.X, th.Max.Point.Y, round1(th.Max.Value.Fahrenheit()), uint16(th.Max.Value)},
			RenderedAt: th.RenderedAt.UTC().Format(time.RFC3339),
		}
	}
	return inner
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
