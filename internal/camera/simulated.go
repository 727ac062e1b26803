package camera

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Scene temperatures in centikelvin.
const (
	simRoom = 29515 // 22 °C
	simBody = 30715 // 34 °C
)

// Simulated is a driver that renders a warm blob drifting across a room
// temperature background, for running the mirror without a camera.
type Simulated struct {
	format Format
}

// NewSimulated creates a simulated driver producing frames in format f.
func NewSimulated(f Format) *Simulated {
	return &Simulated{format: f}
}

// Open returns the simulated device.
func (s *Simulated) Open() (Device, error) {
	if s.format.Width <= 0 || s.format.Height <= 0 || s.format.Interval <= 0 {
		return nil, fmt.Errorf("%w: invalid simulated format %+v", ErrDeviceNotFound, s.format)
	}
	return &simDevice{format: s.format}, nil
}

// Close is a no-op.
func (s *Simulated) Close() error { return nil }

type simDevice struct {
	format Format
}

func (d *simDevice) Formats() []Format { return []Format{d.format} }

func (d *simDevice) Start(f Format, fn FrameFunc) (Stream, error) {
	if f != d.format {
		return nil, fmt.Errorf("%w: unsupported format %+v", ErrStream, f)
	}
	st := &simStream{done: make(chan struct{})}
	st.wg.Add(1)
	go st.run(f, fn)
	return st, nil
}

func (d *simDevice) Close() error { return nil }

type simStream struct {
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func (s *simStream) run(f Format, fn FrameFunc) {
	defer s.wg.Done()

	ticker := time.NewTicker(f.Interval)
	defer ticker.Stop()

	// Reused between frames, like a driver-owned transfer buffer.
	buf := make([]byte, 2*f.Width*f.Height)
	rng := rand.New(rand.NewSource(1))
	n := 0

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			renderScene(buf, f.Width, f.Height, n, rng)
			fn(buf, f.Width, f.Height)
			n++
		}
	}
}

func (s *simStream) Stop() error {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}

// renderScene writes frame n of the scene into buf.
func renderScene(buf []byte, w, h, n int, rng *rand.Rand) {
	angle := float64(n) * 2 * math.Pi / 90
	cx := float64(w)/2 + float64(w)/4*math.Cos(angle)
	cy := float64(h)/2 + float64(h)/4*math.Sin(angle)
	sigma := float64(min(w, h)) / 8

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			heat := math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			v := simRoom + heat*(simBody-simRoom) + rng.NormFloat64()*5
			binary.LittleEndian.PutUint16(buf[2*(y*w+x):], uint16(v))
		}
	}
}
