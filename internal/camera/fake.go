package camera

import (
	"fmt"
	"sync"
)

// Fake is a test double driver. Frames are delivered synchronously with Emit.
// Lifecycle calls are recorded in order in Calls.
type Fake struct {
	// FormatList is returned by Device.Formats.
	FormatList []Format

	// OpenError and StartError, if set, are returned by Open and Start.
	OpenError  error
	StartError error

	mu    sync.Mutex
	fn    FrameFunc
	Calls []string
}

// NewFake creates a Fake supporting the given formats.
func NewFake(formats ...Format) *Fake {
	return &Fake{FormatList: formats}
}

func (f *Fake) record(call string) {
	f.mu.Lock()
	f.Calls = append(f.Calls, call)
	f.mu.Unlock()
}

// Open records the call and returns a fake device.
func (f *Fake) Open() (Device, error) {
	f.record("open")
	if f.OpenError != nil {
		return nil, f.OpenError
	}
	return &fakeDevice{fake: f}, nil
}

// Close records the call.
func (f *Fake) Close() error {
	f.record("close")
	return nil
}

// Emit delivers one frame to the registered callback as the driver would.
// It returns false if no stream is active.
func (f *Fake) Emit(data []byte, width, height int) bool {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(data, width, height)
	return true
}

// Streaming reports whether a stream is active.
func (f *Fake) Streaming() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fn != nil
}

type fakeDevice struct {
	fake *Fake
}

func (d *fakeDevice) Formats() []Format {
	return d.fake.FormatList
}

func (d *fakeDevice) Start(format Format, fn FrameFunc) (Stream, error) {
	d.fake.record("start")
	if d.fake.StartError != nil {
		return nil, d.fake.StartError
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: nil frame callback", ErrStream)
	}
	d.fake.mu.Lock()
	d.fake.fn = fn
	d.fake.mu.Unlock()
	return &fakeStream{fake: d.fake}, nil
}

func (d *fakeDevice) Close() error {
	d.fake.record("device-close")
	return nil
}

type fakeStream struct {
	fake *Fake
}

func (s *fakeStream) Stop() error {
	s.fake.record("stop")
	s.fake.mu.Lock()
	s.fake.fn = nil
	s.fake.mu.Unlock()
	return nil
}
