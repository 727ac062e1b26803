//go:build linux

package sensor

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOMotion reads a PIR sensor output from a GPIO line.
type GPIOMotion struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewGPIOMotion requests pin on the named chip as an input.
func NewGPIOMotion(chipName string, pin int) (*GPIOMotion, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	// PIR modules drive the line high on motion; pull down so a
	// disconnected sensor reads as no motion.
	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request motion pin %d: %w", pin, err)
	}

	return &GPIOMotion{chip: chip, line: line}, nil
}

// Sense reports whether the PIR output is high.
func (m *GPIOMotion) Sense() (bool, error) {
	v, err := m.line.Value()
	if err != nil {
		return false, fmt.Errorf("read motion pin: %w", err)
	}
	return v == 1, nil
}

// Close releases the line and chip.
// Reconfigures the pin to input with pull-down (matching Pi boot defaults)
// before closing.
func (m *GPIOMotion) Close() error {
	var errs []error

	if m.line != nil {
		if err := m.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure motion pin: %w", err))
		}
		if err := m.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close motion pin: %w", err))
		}
	}
	if m.chip != nil {
		if err := m.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
