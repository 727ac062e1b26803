// Package sensor provides motion and ambient sensor access with hardware abstraction.
// The hardware implementations use the Linux GPIO character device (PIR motion)
// and periph.io I²C drivers (BME280 temperature/humidity).
// The simulated implementations stand in for hardware on development machines,
// and the fakes allow testing with scripted values.
package sensor

// Motion reads a passive-infrared motion sensor.
type Motion interface {
	// Sense reports whether motion is currently detected.
	Sense() (bool, error)

	// Close releases sensor resources.
	Close() error
}

// Ambient reads a room temperature and humidity sensor.
type Ambient interface {
	// Sense returns relative humidity (%) and temperature (°C).
	Sense() (humidity, temperature float64, err error)

	// Close releases sensor resources.
	Close() error
}

// Defaults for the mirror's wiring.
const (
	DefaultMotionChip  = "gpiochip0"
	DefaultMotionPin   = 7 // BCM numbering
	DefaultAmbientAddr = 0x76
)
