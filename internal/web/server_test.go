package web

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/smart-mirror/internal/ambient"
	"github.com/sweeney/smart-mirror/internal/display"
	"github.com/sweeney/smart-mirror/internal/logic"
	"github.com/sweeney/smart-mirror/internal/status"
	"github.com/sweeney/smart-mirror/internal/thermal"
)

var allPanels = map[string]bool{
	display.PanelHeat:  true,
	display.PanelData:  true,
	display.PanelDebug: true,
}

var hiddenPanels = map[string]bool{
	display.PanelHeat:  false,
	display.PanelData:  false,
	display.PanelDebug: false,
}

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		SleepTimeout:   10 * time.Second,
		FrameTime:      33 * time.Millisecond,
		Heartbeat:      15 * time.Minute,
		Broker:         "tcp://192.168.1.200:1883",
		HTTPAddr:       ":80",
		ShowSleepTimer: true,
		ShowHostIP:     true,
	}
	tr := status.NewTracker(start, "boot-1", cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.StatePassive, 11*time.Second, hiddenPanels, logic.EventCounts{Sleep: 1, Motion: 3})
	tr.SetMQTTConnected(true)

	resp, body := get(t, ts.URL+"/index.json")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.Unmarshal([]byte(body), &sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.Status.State != "PASSIVE" {
		t.Errorf("State: got %q, want PASSIVE", sj.Status.State)
	}
	if sj.Status.PanelsShown {
		t.Error("expected panels hidden")
	}
	if sj.Status.Counts.Sleep != 1 || sj.Status.Counts.Motion != 3 {
		t.Errorf("Counts: got %+v", sj.Status.Counts)
	}
	if !sj.Status.MQTT.Connected || sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT: got %+v", sj.Status.MQTT)
	}
	if sj.Status.BootID != "boot-1" {
		t.Errorf("BootID: got %q", sj.Status.BootID)
	}
}

func TestHTMLShowsVisiblePanels(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.StateActive, 3420*time.Millisecond, allPanels, logic.EventCounts{})
	tr.SetAmbient(ambient.Reading{Temperature: 21.5, Humidity: 44.1})
	tr.SetNetwork(&status.NetworkInfo{IP: "192.168.1.20"})

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}
	for _, want := range []string{
		`id="heat"`,
		`id="data"`,
		`id="debug"`,
		"temperature: 21.5",
		"humidity: 44.1",
		"Timer: 3.4 (10)",
		"Mirror network address: 192.168.1.20",
		"waiting for camera",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page should contain %q", want)
		}
	}
}

func TestHTMLHidesPanelsWhenPassive(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetAmbient(ambient.Reading{Temperature: 21.5, Humidity: 44.1})
	tr.Update(logic.StatePassive, 12*time.Second, hiddenPanels, logic.EventCounts{Sleep: 1})

	_, body := get(t, ts.URL+"/")
	for _, unwanted := range []string{`id="heat"`, `id="data"`, `id="debug"`, "temperature:"} {
		if strings.Contains(body, unwanted) {
			t.Errorf("passive page should not contain %q", unwanted)
		}
	}
	if !strings.Contains(body, "PASSIVE") {
		t.Error("passive page should show the state")
	}
}

func TestHTMLOnlyConfiguredPanels(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.StateActive, 0, map[string]bool{display.PanelHeat: true}, logic.EventCounts{})

	_, body := get(t, ts.URL+"/index.html")
	if !strings.Contains(body, `id="heat"`) {
		t.Error("heat panel should be shown")
	}
	if strings.Contains(body, `id="data"`) || strings.Contains(body, `id="debug"`) {
		t.Error("panels that were not configured should not be shown")
	}
}

func TestHTMLWithFrame(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.StateActive, 0, allPanels, logic.EventCounts{})
	tr.SetFrame(&thermal.Display{
		Image: image.NewRGBA(image.Rect(0, 0, 64, 48)),
		Min:   thermal.Extreme{Value: 29515},
		Max:   thermal.Extreme{Value: 30715},
	}, time.Now())

	_, body := get(t, ts.URL+"/")
	if !strings.Contains(body, `src="/frame.png?n=1"`) {
		t.Error("page should reference the latest frame")
	}
	if !strings.Contains(body, "min 71.6 degF max 93.2 degF") {
		t.Error("page should show the frame extremes")
	}
}

func TestFrameEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)

	resp, _ := get(t, ts.URL+"/frame.png")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("before first frame: got %d, want 404", resp.StatusCode)
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(2, 1, color.RGBA{R: 255, A: 255})
	tr.SetFrame(&thermal.Display{Image: img}, time.Now())

	r, err := http.Get(ts.URL + "/frame.png")
	if err != nil {
		t.Fatalf("GET /frame.png: %v", err)
	}
	defer r.Body.Close()
	if r.StatusCode != 200 {
		t.Fatalf("status: got %d, want 200", r.StatusCode)
	}
	if ct := r.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type: got %q, want image/png", ct)
	}
	decoded, err := png.Decode(r.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 3 {
		t.Errorf("size: got %v", decoded.Bounds())
	}
	if cr, _, _, _ := decoded.At(2, 1).RGBA(); cr>>8 != 255 {
		t.Errorf("pixel (2,1) red: got %d, want 255", cr>>8)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, _ := get(t, ts.URL+"/nonexistent")
	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	_, body := get(t, ts.URL+"/index.json")
	var sj1 status.StatusJSON
	json.Unmarshal([]byte(body), &sj1)
	if sj1.Status.State != "ACTIVE" {
		t.Errorf("expected ACTIVE initially, got %q", sj1.Status.State)
	}

	tr.Update(logic.StatePassive, 10*time.Second, hiddenPanels, logic.EventCounts{Sleep: 1})
	tr.SetMQTTConnected(true)

	_, body = get(t, ts.URL+"/index.json")
	var sj2 status.StatusJSON
	json.Unmarshal([]byte(body), &sj2)
	if sj2.Status.State != "PASSIVE" {
		t.Errorf("State: got %q, want PASSIVE", sj2.Status.State)
	}
	if !sj2.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}
