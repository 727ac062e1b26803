package status

import (
	"testing"
	"time"

	"github.com/sweeney/smart-mirror/internal/ambient"
)

func TestTimerLabel(t *testing.T) {
	tests := []struct {
		idle, timeout time.Duration
		want          string
	}{
		{3420 * time.Millisecond, 10 * time.Second, "Timer: 3.4 (10)"},
		{0, 10 * time.Second, "Timer: 0.0 (10)"},
		{9960 * time.Millisecond, 12500 * time.Millisecond, "Timer: 10.0 (12.5)"},
	}
	for _, tt := range tests {
		if got := TimerLabel(tt.idle, tt.timeout); got != tt.want {
			t.Errorf("TimerLabel(%v, %v): got %q, want %q", tt.idle, tt.timeout, got, tt.want)
		}
	}
}

func TestAmbientLines(t *testing.T) {
	got := AmbientLines(ambient.Reading{Temperature: 21.57, Humidity: 44})
	want := []string{"temperature: 21.57", "humidity: 44"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDebugLines(t *testing.T) {
	snap := Snapshot{
		IdleFor: 2 * time.Second,
		Network: &NetworkInfo{IP: "192.168.1.20"},
		Config:  Config{SleepTimeout: 10 * time.Second, ShowSleepTimer: true, ShowHostIP: true},
	}
	got := DebugLines(snap)
	if len(got) != 2 || got[0] != "Timer: 2.0 (10)" || got[1] != "Mirror network address: 192.168.1.20" {
		t.Errorf("got %q", got)
	}

	snap.Config.ShowSleepTimer = false
	if got := DebugLines(snap); len(got) != 1 || got[0] != AddressLabel("192.168.1.20") {
		t.Errorf("timer disabled: got %q", got)
	}

	snap.Network = nil
	if got := DebugLines(snap); len(got) != 0 {
		t.Errorf("no address known: got %q", got)
	}
}
