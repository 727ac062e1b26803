package status

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sweeney/smart-mirror/internal/ambient"
)

// TimerLabel is the debug panel's sleep-timer readout, e.g. "Timer: 3.4 (10)".
func TimerLabel(idle, timeout time.Duration) string {
	return fmt.Sprintf("Timer: %.1f (%s)", idle.Seconds(),
		strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64))
}

// AddressLabel is the debug panel's host address line.
func AddressLabel(ip string) string {
	return "Mirror network address: " + ip
}

// AmbientLines are the data panel lines for a reading.
func AmbientLines(r ambient.Reading) []string {
	return []string{
		"temperature: " + strconv.FormatFloat(r.Temperature, 'f', -1, 64),
		"humidity: " + strconv.FormatFloat(r.Humidity, 'f', -1, 64),
	}
}

// DebugLines are the debug panel lines for a snapshot, honouring the
// sleep-timer and host-address display settings.
func DebugLines(s Snapshot) []string {
	var lines []string
	if s.Config.ShowSleepTimer {
		lines = append(lines, TimerLabel(s.IdleFor, s.Config.SleepTimeout))
	}
	if s.Config.ShowHostIP && s.Network != nil && s.Network.IP != "" {
		lines = append(lines, AddressLabel(s.Network.IP))
	}
	return lines
}
