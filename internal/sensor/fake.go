package sensor

import "errors"

// FakeMotion is a test double that returns scripted motion samples.
type FakeMotion struct {
	// Samples contains scripted values to return.
	// Each call to Sense() consumes the next sample.
	Samples []bool

	// index tracks current position in Samples
	index int

	// Reads counts calls to Sense
	Reads int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Sense()
	ReadError error
}

// NewFakeMotion creates a FakeMotion with the given samples.
func NewFakeMotion(samples ...bool) *FakeMotion {
	return &FakeMotion{Samples: samples}
}

// Sense returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeMotion) Sense() (bool, error) {
	f.Reads++
	if f.ReadError != nil {
		return false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the sensor as closed.
func (f *FakeMotion) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the sensor to the beginning of samples.
func (f *FakeMotion) Reset() {
	f.index = 0
	f.Reads = 0
	f.Closed = false
}

// AmbientSample is a single scripted ambient reading.
type AmbientSample struct {
	Humidity    float64
	Temperature float64
}

// FakeAmbient is a test double that returns scripted ambient readings.
type FakeAmbient struct {
	Samples   []AmbientSample
	index     int
	Reads     int
	Closed    bool
	ReadError error
}

// NewFakeAmbient creates a FakeAmbient with the given samples.
func NewFakeAmbient(samples ...AmbientSample) *FakeAmbient {
	return &FakeAmbient{Samples: samples}
}

// Sense returns the next scripted reading, repeating the last one when
// exhausted.
func (f *FakeAmbient) Sense() (float64, float64, error) {
	f.Reads++
	if f.ReadError != nil {
		return 0, 0, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, 0, errors.New("no samples configured")
	}

	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s.Humidity, s.Temperature, nil
}

// Close marks the sensor as closed.
func (f *FakeAmbient) Close() error {
	f.Closed = true
	return nil
}
