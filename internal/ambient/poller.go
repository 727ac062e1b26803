// Package ambient caches room temperature and humidity readings so the
// physical sensor is read at most once per interval.
package ambient

import (
	"fmt"
	"math"
	"time"
)

// Sensor reads relative humidity (%) and temperature (°C).
type Sensor interface {
	Sense() (humidity, temperature float64, err error)
}

// Reading is the current ambient measurement.
type Reading struct {
	Temperature float64
	Humidity    float64
	CapturedAt  time.Time
}

// Poll returns a fresh reading from s if more than interval has elapsed
// since lastPoll, and last unchanged otherwise. The returned time is the
// poll time to pass to the next call.
//
// A sensor error is returned as is; the caller decides whether it is fatal.
func Poll(s Sensor, lastPoll time.Time, last Reading, interval time.Duration, now time.Time) (Reading, time.Time, error) {
	if now.Sub(lastPoll) <= interval {
		return last, lastPoll, nil
	}

	hum, temp, err := s.Sense()
	if err != nil {
		return last, lastPoll, fmt.Errorf("read ambient sensor: %w", err)
	}

	return Reading{
		Temperature: round2(temp),
		Humidity:    round2(hum),
		CapturedAt:  now,
	}, now, nil
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Poller keeps the state for repeated Poll calls from a single goroutine.
type Poller struct {
	sensor   Sensor
	interval time.Duration
	lastPoll time.Time
	current  Reading
}

// NewPoller creates a Poller that has never read s; its first Poll reads.
func NewPoller(s Sensor, interval time.Duration) *Poller {
	return &Poller{sensor: s, interval: interval}
}

// Poll refreshes the reading if the interval has elapsed. refreshed reports
// whether the sensor was read.
func (p *Poller) Poll(now time.Time) (r Reading, refreshed bool, err error) {
	r, polled, err := Poll(p.sensor, p.lastPoll, p.current, p.interval, now)
	if err != nil {
		return p.current, false, err
	}
	refreshed = !polled.Equal(p.lastPoll)
	p.lastPoll = polled
	p.current = r
	return r, refreshed, nil
}

// Current returns the cached reading without touching the sensor.
func (p *Poller) Current() Reading {
	return p.current
}
