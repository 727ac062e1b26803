// Package status provides a thread-safe status tracker for the mirror.
// It is written by the render loop and read by HTTP handlers and MQTT
// lifecycle events.
package status

import (
	"image"
	"sync"
	"time"

	"github.com/sweeney/smart-mirror/internal/ambient"
	"github.com/sweeney/smart-mirror/internal/logic"
	"github.com/sweeney/smart-mirror/internal/thermal"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing cmd-level environment parsing from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains the mirror configuration for display.
type Config struct {
	SleepTimeout      time.Duration
	FrameTime         time.Duration
	AmbientPoll       time.Duration
	Heartbeat         time.Duration
	QueueCapacity     int
	CameraDriver      string
	MotionDriver      string
	AmbientDriver     string
	Broker            string
	HTTPAddr          string
	UseHumiditySensor bool
	DebugPanel        bool
	ShowHostIP        bool
	ShowSleepTimer    bool
}

// Pipeline holds the frame pipeline counters.
type Pipeline struct {
	Received  uint64
	Malformed uint64
	Enqueued  uint64
	Dropped   uint64
	Queued    int
	Rendered  uint64
}

// Thermal describes the most recently rendered frame.
type Thermal struct {
	Width, Height int
	Min, Max      thermal.Extreme
	RenderedAt    time.Time
}

// Snapshot is a point-in-time view of mirror state.
// It is a value type; safe to use after the lock is released.
type Snapshot struct {
	BootID        string
	State         logic.State
	PanelsShown   bool
	Panels        map[string]bool
	IdleFor       time.Duration
	Counts        logic.EventCounts
	Ambient       *ambient.Reading
	Thermal       *Thermal
	Pipeline      Pipeline
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the mirror started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable mirror state behind an RWMutex.
type Tracker struct {
	mu    sync.RWMutex
	snap  Snapshot
	frame *image.RGBA
}

// NewTracker creates a Tracker with the given start time, boot id and config.
func NewTracker(startTime time.Time, bootID string, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			BootID:      bootID,
			State:       logic.StateActive,
			PanelsShown: true,
			StartTime:   startTime,
			Config:      cfg,
		},
	}
}

// Update sets display state, idle time, panel visibility and event counts.
// Called from runLoop on every tick.
func (t *Tracker) Update(state logic.State, idleFor time.Duration, panels map[string]bool, counts logic.EventCounts) {
	cp := make(map[string]bool, len(panels))
	shown := false
	for name, v := range panels {
		cp[name] = v
		shown = shown || v
	}

	t.mu.Lock()
	t.snap.State = state
	t.snap.IdleFor = idleFor
	t.snap.Panels = cp
	t.snap.PanelsShown = shown
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetFrame records the latest rendered frame. The image must not be
// modified after this call.
func (t *Tracker) SetFrame(d *thermal.Display, at time.Time) {
	if d == nil || d.Image == nil {
		return
	}
	b := d.Image.Bounds()
	t.mu.Lock()
	t.frame = d.Image
	t.snap.Thermal = &Thermal{
		Width:      b.Dx(),
		Height:     b.Dy(),
		Min:        d.Min,
		Max:        d.Max,
		RenderedAt: at,
	}
	t.snap.Pipeline.Rendered++
	t.mu.Unlock()
}

// Frame returns the latest rendered frame, or nil before the first one.
func (t *Tracker) Frame() *image.RGBA {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frame
}

// SetAmbient records the latest ambient reading.
func (t *Tracker) SetAmbient(r ambient.Reading) {
	t.mu.Lock()
	t.snap.Ambient = &r
	t.mu.Unlock()
}

// SetPipeline records the frame source counters and the buffer depth.
func (t *Tracker) SetPipeline(stats thermal.SourceStats, queued int) {
	t.mu.Lock()
	t.snap.Pipeline.Received = stats.Received
	t.snap.Pipeline.Malformed = stats.Malformed
	t.snap.Pipeline.Enqueued = stats.Enqueued
	t.snap.Pipeline.Dropped = stats.Dropped
	t.snap.Pipeline.Queued = queued
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the mirror state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	if s.Panels != nil {
		s.Panels = make(map[string]bool, len(t.snap.Panels))
		for k, v := range t.snap.Panels {
			s.Panels[k] = v
		}
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
