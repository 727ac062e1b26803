//go:build !linux

package sensor

import "errors"

// GPIOMotion is not available on non-Linux platforms.
type GPIOMotion struct{}

// NewGPIOMotion returns an error on non-Linux platforms.
func NewGPIOMotion(chipName string, pin int) (*GPIOMotion, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Sense is not implemented on non-Linux platforms.
func (m *GPIOMotion) Sense() (bool, error) {
	return false, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (m *GPIOMotion) Close() error {
	return nil
}
