package status

import (
	"encoding/json"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/smart-mirror/internal/ambient"
	"github.com/sweeney/smart-mirror/internal/logic"
	"github.com/sweeney/smart-mirror/internal/thermal"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{SleepTimeout: 10 * time.Second, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(start, "boot-1", cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.BootID != "boot-1" {
		t.Errorf("BootID: got %q", snap.BootID)
	}
	if snap.Config.HTTPAddr != ":80" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":80")
	}
	if snap.State != logic.StateActive || !snap.PanelsShown {
		t.Errorf("expected ACTIVE with panels shown initially, got %s shown=%v", snap.State, snap.PanelsShown)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
	if snap.Ambient != nil || snap.Thermal != nil {
		t.Error("expected no ambient or thermal data initially")
	}
	if tr.Frame() != nil {
		t.Error("expected no frame initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), "", Config{})

	tr.Update(logic.StatePassive, 12*time.Second,
		map[string]bool{"heat": false, "data": false},
		logic.EventCounts{Sleep: 2, Wake: 1, Motion: 5})

	snap := tr.Snapshot()
	if snap.State != logic.StatePassive {
		t.Errorf("State: got %s", snap.State)
	}
	if snap.PanelsShown {
		t.Error("PanelsShown should be false when every panel is hidden")
	}
	if snap.IdleFor != 12*time.Second {
		t.Errorf("IdleFor: got %v", snap.IdleFor)
	}
	if snap.Counts.Sleep != 2 || snap.Counts.Wake != 1 || snap.Counts.Motion != 5 {
		t.Errorf("Counts: got %+v", snap.Counts)
	}

	tr.Update(logic.StateActive, 0, map[string]bool{"heat": true, "data": true}, logic.EventCounts{})
	if !tr.Snapshot().PanelsShown {
		t.Error("PanelsShown should be true when panels are visible")
	}
}

func TestSetFrame(t *testing.T) {
	tr := NewTracker(time.Now(), "", Config{})
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := &thermal.Display{
		Image: image.NewRGBA(image.Rect(0, 0, 80, 60)),
		Min:   thermal.Extreme{Point: image.Pt(1, 2), Value: 29000},
		Max:   thermal.Extreme{Point: image.Pt(3, 4), Value: 31000},
	}

	tr.SetFrame(nil, at)
	if tr.Frame() != nil {
		t.Fatal("nil display should be ignored")
	}

	tr.SetFrame(d, at)
	if tr.Frame() != d.Image {
		t.Error("Frame should return the latest image")
	}
	snap := tr.Snapshot()
	if snap.Thermal == nil {
		t.Fatal("expected thermal info")
	}
	if snap.Thermal.Width != 80 || snap.Thermal.Height != 60 {
		t.Errorf("size: got %dx%d", snap.Thermal.Width, snap.Thermal.Height)
	}
	if snap.Thermal.Max.Value != 31000 || snap.Thermal.Min.Point != image.Pt(1, 2) {
		t.Errorf("extremes: got %+v", snap.Thermal)
	}
	if snap.Pipeline.Rendered != 1 {
		t.Errorf("Rendered: got %d, want 1", snap.Pipeline.Rendered)
	}
}

func TestSetAmbientAndPipeline(t *testing.T) {
	tr := NewTracker(time.Now(), "", Config{})
	tr.SetAmbient(ambient.Reading{Temperature: 21.5, Humidity: 40})
	tr.SetPipeline(thermal.SourceStats{Received: 10, Malformed: 1, Enqueued: 8, Dropped: 1}, 3)

	snap := tr.Snapshot()
	if snap.Ambient == nil || snap.Ambient.Temperature != 21.5 {
		t.Errorf("Ambient: got %+v", snap.Ambient)
	}
	want := Pipeline{Received: 10, Malformed: 1, Enqueued: 8, Dropped: 1, Queued: 3}
	if snap.Pipeline != want {
		t.Errorf("Pipeline: got %+v, want %+v", snap.Pipeline, want)
	}
}

func TestSetMQTTConnectedAndNetwork(t *testing.T) {
	tr := NewTracker(time.Now(), "", Config{})
	tr.SetMQTTConnected(true)
	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "10.0.0.5"})

	snap := tr.Snapshot()
	if !snap.MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}
	if snap.Network == nil || snap.Network.IP != "10.0.0.5" {
		t.Errorf("Network: got %+v", snap.Network)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Now().Add(-5 * time.Minute)
	tr := NewTracker(start, "", Config{})
	if up := tr.Snapshot().Uptime(); up < 5*time.Minute || up > 5*time.Minute+5*time.Second {
		t.Errorf("Uptime: got %v, want ~5m", up)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), "", Config{})
	tr.Update(logic.StateActive, 0, map[string]bool{"heat": true}, logic.EventCounts{})

	snap := tr.Snapshot()
	snap.Panels["heat"] = false
	snap.State = logic.StatePassive

	again := tr.Snapshot()
	if !again.Panels["heat"] || again.State != logic.StateActive {
		t.Error("mutating a snapshot must not affect the tracker")
	}
}

func TestUpdateCopiesPanels(t *testing.T) {
	tr := NewTracker(time.Now(), "", Config{})
	panels := map[string]bool{"heat": true}
	tr.Update(logic.StateActive, 0, panels, logic.EventCounts{})
	panels["heat"] = false

	if !tr.Snapshot().Panels["heat"] {
		t.Error("tracker must not alias the caller's map")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		BootID:      "abc",
		State:       logic.StateActive,
		PanelsShown: true,
		Panels:      map[string]bool{"heat": true, "data": true},
		IdleFor:     3420 * time.Millisecond,
		Counts:      logic.EventCounts{Sleep: 1, Wake: 1, Motion: 4},
		Ambient:     &ambient.Reading{Temperature: 21.57, Humidity: 44.1, CapturedAt: start},
		Thermal: &Thermal{
			Width: 640, Height: 480,
			Min: thermal.Extreme{Point: image.Pt(10, 20), Value: 29515},
			Max: thermal.Extreme{Point: image.Pt(30, 40), Value: 30715},
		},
		Pipeline:  Pipeline{Received: 5, Rendered: 4},
		StartTime: start,
		Now:       start.Add(90 * time.Second),
		Config:    Config{SleepTimeout: 10 * time.Second, FrameTime: 33 * time.Millisecond, QueueCapacity: 10, CameraDriver: "simulated"},
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	s := parsed.Status
	if s.Event != "" || s.Reason != "" {
		t.Error("web status should not carry event or reason")
	}
	if s.BootID != "abc" || s.State != "ACTIVE" || !s.PanelsShown {
		t.Errorf("header fields: got %+v", s)
	}
	if s.IdleSeconds != 3.4 {
		t.Errorf("IdleSeconds: got %v, want 3.4", s.IdleSeconds)
	}
	if s.UptimeSeconds != 90 {
		t.Errorf("UptimeSeconds: got %d, want 90", s.UptimeSeconds)
	}
	if s.Counts.Motion != 4 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Ambient == nil || s.Ambient.TemperatureC != 21.57 {
		t.Errorf("Ambient: got %+v", s.Ambient)
	}
	if s.Thermal == nil || s.Thermal.Min.Fahrenheit != 71.6 || s.Thermal.Max.Fahrenheit != 93.2 {
		t.Errorf("Thermal: got %+v", s.Thermal)
	}
	if s.Pipeline.Received != 5 || s.Pipeline.Rendered != 4 {
		t.Errorf("Pipeline: got %+v", s.Pipeline)
	}
	if s.Config.SleepTimeoutMs != 10000 || s.Config.FrameTimeMs != 33 || s.Config.CameraDriver != "simulated" {
		t.Errorf("Config: got %+v", s.Config)
	}
	if s.Network != nil {
		t.Error("network should be omitted when unknown")
	}
}

func TestFormatJSONUnknownState(t *testing.T) {
	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(Snapshot{}), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.State != "UNKNOWN" {
		t.Errorf("State: got %q, want UNKNOWN", parsed.Status.State)
	}
	if parsed.Status.Panels == nil {
		t.Error("panels should encode as an empty object, not null")
	}
	if parsed.Status.Ambient != nil || parsed.Status.Thermal != nil {
		t.Error("ambient and thermal should be omitted when absent")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	snap := Snapshot{
		State:   logic.StateActive,
		Network: &NetworkInfo{Type: "wifi", IP: "192.168.1.20", SSID: "MyNet"},
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM"), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" || parsed.Status.Reason != "SIGTERM" {
		t.Errorf("event/reason: got %q/%q", parsed.Status.Event, parsed.Status.Reason)
	}
	if parsed.Status.Network == nil || parsed.Status.Network.SSID != "MyNet" {
		t.Errorf("Network: got %+v", parsed.Status.Network)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(FormatStatusEvent(Snapshot{}, "STARTUP", ""), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["status"]["reason"]; ok {
		t.Error("reason should be omitted when empty")
	}
	if raw["status"]["event"] != "STARTUP" {
		t.Errorf("event: got %v", raw["status"]["event"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), "", Config{})
	d := &thermal.Display{Image: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(logic.StateActive, time.Duration(i), map[string]bool{"heat": i%2 == 0}, logic.EventCounts{Motion: i})
			tr.SetMQTTConnected(i%2 == 0)
			tr.SetNetwork(&NetworkInfo{IP: "1.2.3.4"})
			tr.SetAmbient(ambient.Reading{Temperature: float64(i)})
			tr.SetFrame(d, time.Now())
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
			_ = FormatJSON(snap)
			_ = tr.Frame()
		}
	}()

	wg.Wait()
}
