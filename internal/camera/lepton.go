package camera

import (
	"encoding/binary"
	"fmt"
	"image"
	"log"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/lepton"
	"periph.io/x/devices/v3/lepton/image14bit"
	"periph.io/x/host/v3"
)

// leptonInterval is the Lepton's exported frame rate (~8.7 Hz).
const leptonInterval = 115 * time.Millisecond

// A raw count of leptonCountZero reads as the focal plane array temperature;
// each count away from it is 0.025 K, i.e. 5/2 cK.
const leptonCountZero = 8192

// Lepton drives a FLIR Lepton over SPI and I²C. The sensor reports raw
// 14-bit counts; frames are converted to centikelvin before delivery.
type Lepton struct {
	spiName string
	i2cName string

	port spi.PortCloser
	bus  i2c.BusCloser
}

// NewLepton initialises the host drivers and opens the named SPI port and
// I²C bus ("" selects the first available).
func NewLepton(spiName, i2cName string) (*Lepton, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	return &Lepton{spiName: spiName, i2cName: i2cName}, nil
}

// Open connects to the camera on the configured buses.
func (l *Lepton) Open() (Device, error) {
	port, err := spireg.Open(l.spiName)
	if err != nil {
		return nil, fmt.Errorf("%w: spi %q: %v", ErrDeviceNotFound, l.spiName, err)
	}
	bus, err := i2creg.Open(l.i2cName)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("%w: i2c %q: %v", ErrDeviceNotFound, l.i2cName, err)
	}

	dev, err := lepton.New(port, bus)
	if err != nil {
		bus.Close()
		port.Close()
		return nil, fmt.Errorf("%w: %v", ErrDeviceBusy, err)
	}

	l.port, l.bus = port, bus
	return &leptonDevice{dev: dev}, nil
}

// Close releases the SPI port and I²C bus.
func (l *Lepton) Close() error {
	var errs []error
	if l.bus != nil {
		if err := l.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close i2c: %w", err))
		}
	}
	if l.port != nil {
		if err := l.port.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close spi: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

type leptonDevice struct {
	dev *lepton.Dev
}

func (d *leptonDevice) Formats() []Format {
	b := d.dev.Bounds()
	return []Format{{Width: b.Dx(), Height: b.Dy(), Interval: leptonInterval}}
}

func (d *leptonDevice) Start(f Format, fn FrameFunc) (Stream, error) {
	b := d.dev.Bounds()
	if f.Width != b.Dx() || f.Height != b.Dy() {
		return nil, fmt.Errorf("%w: unsupported format %dx%d", ErrStream, f.Width, f.Height)
	}
	st := &leptonStream{dev: d.dev, done: make(chan struct{})}
	st.wg.Add(1)
	go st.run(b, fn)
	return st, nil
}

func (d *leptonDevice) Close() error {
	if err := d.dev.Halt(); err != nil {
		return fmt.Errorf("halt lepton: %w", err)
	}
	return nil
}

type leptonStream struct {
	dev  *lepton.Dev
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func (s *leptonStream) run(b image.Rectangle, fn FrameFunc) {
	defer s.wg.Done()

	frame := lepton.Frame{Gray14: image14bit.NewGray14(b)}
	buf := make([]byte, 2*b.Dx()*b.Dy())

	for {
		select {
		case <-s.done:
			return
		default:
		}

		if err := s.dev.NextFrame(&frame); err != nil {
			log.Printf("lepton: frame error: %v", err)
			time.Sleep(leptonInterval)
			continue
		}

		encodeCentiK(&frame, buf)
		fn(buf, b.Dx(), b.Dy())
	}
}

// encodeCentiK writes f as Y16 little-endian centikelvin into buf, which
// must hold 2 bytes per pixel. Counts are referenced to the focal plane
// array temperature from the frame telemetry and clamped to uint16.
func encodeCentiK(f *lepton.Frame, buf []byte) {
	fpa := int64(f.Metadata.Temp / (10 * physic.MilliKelvin))
	r := f.Rect
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := f.Pix[(y-r.Min.Y)*f.Stride:]
		for x := 0; x < r.Dx(); x++ {
			ck := fpa + (int64(row[x])-leptonCountZero)*5/2
			if ck < 0 {
				ck = 0
			} else if ck > math.MaxUint16 {
				ck = math.MaxUint16
			}
			binary.LittleEndian.PutUint16(buf[i:], uint16(ck))
			i += 2
		}
	}
}

func (s *leptonStream) Stop() error {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}
