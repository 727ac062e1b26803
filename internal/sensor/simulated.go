package sensor

import (
	"math"
	"time"
)

// SimulatedMotion reports a short burst of motion once per period, for
// running the mirror without a PIR sensor attached.
type SimulatedMotion struct {
	period time.Duration
	burst  time.Duration
	start  time.Time
	now    func() time.Time
}

// NewSimulatedMotion creates a simulated sensor that reports motion for the
// first second of every period.
func NewSimulatedMotion(period time.Duration, now func() time.Time) *SimulatedMotion {
	if now == nil {
		now = time.Now
	}
	return &SimulatedMotion{period: period, burst: time.Second, start: now(), now: now}
}

// Sense reports motion during the burst at the start of each period.
func (s *SimulatedMotion) Sense() (bool, error) {
	if s.period <= 0 {
		return false, nil
	}
	elapsed := s.now().Sub(s.start) % s.period
	return elapsed < s.burst, nil
}

// Close is a no-op.
func (s *SimulatedMotion) Close() error { return nil }

// SimulatedAmbient returns a slowly drifting room climate.
type SimulatedAmbient struct {
	start time.Time
	now   func() time.Time
}

// NewSimulatedAmbient creates a simulated temperature/humidity sensor.
func NewSimulatedAmbient(now func() time.Time) *SimulatedAmbient {
	if now == nil {
		now = time.Now
	}
	return &SimulatedAmbient{start: now(), now: now}
}

// Sense returns humidity around 45 % and temperature around 21.5 °C,
// drifting over a ten-minute cycle.
func (s *SimulatedAmbient) Sense() (float64, float64, error) {
	phase := 2 * math.Pi * s.now().Sub(s.start).Minutes() / 10
	return 45 + 5*math.Cos(phase), 21.5 + 1.5*math.Sin(phase), nil
}

// Close is a no-op.
func (s *SimulatedAmbient) Close() error { return nil }
