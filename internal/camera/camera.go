// Package camera is the boundary to the thermal camera driver.
//
// Acquisition is a chain of scoped handles: a driver Context is opened into a
// Device, which starts a Stream. Callers release them in reverse order
// (Stream.Stop, Device.Close, Context.Close), typically with defer.
package camera

import (
	"errors"
	"time"
)

// Driver errors, checkable with errors.Is.
var (
	ErrInit           = errors.New("camera: driver init failed")
	ErrDeviceNotFound = errors.New("camera: device not found")
	ErrDeviceBusy     = errors.New("camera: device not available")
	ErrStream         = errors.New("camera: stream start failed")
	ErrNoFormat       = errors.New("camera: device does not support Y16")
)

// FrameFunc receives one completed Y16 frame: little-endian uint16 per pixel,
// row-major. It is called on the driver's capture goroutine and must not
// block. data is only valid for the duration of the call.
type FrameFunc func(data []byte, width, height int)

// Format is a negotiated Y16 stream format.
type Format struct {
	Width    int
	Height   int
	Interval time.Duration
}

// FPS returns the nominal frame rate of the format.
func (f Format) FPS() float64 {
	if f.Interval <= 0 {
		return 0
	}
	return float64(time.Second) / float64(f.Interval)
}

// Context is an initialised camera driver.
type Context interface {
	// Open finds and opens the camera.
	Open() (Device, error)

	// Close tears down the driver.
	Close() error
}

// Device is an open camera.
type Device interface {
	// Formats lists the Y16 formats the device supports, preferred first.
	Formats() []Format

	// Start begins streaming in format f, calling fn for every frame.
	Start(f Format, fn FrameFunc) (Stream, error)

	// Close releases the device.
	Close() error
}

// Stream is an active capture.
type Stream interface {
	// Stop ends the capture. No FrameFunc call is in progress or made after
	// Stop returns.
	Stop() error
}
