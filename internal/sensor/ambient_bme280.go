package sensor

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// BME280 reads temperature and humidity from a Bosch BME280 on I²C.
type BME280 struct {
	bus i2c.BusCloser
	dev *bmxx80.Dev
}

// NewBME280 opens the named I²C bus ("" for the first one) and the sensor
// at addr.
func NewBME280(busName string, addr uint16) (*BME280, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("open bme280 at %#x: %w", addr, err)
	}

	return &BME280{bus: bus, dev: dev}, nil
}

// Sense performs one forced measurement.
func (b *BME280) Sense() (float64, float64, error) {
	var env physic.Env
	if err := b.dev.Sense(&env); err != nil {
		return 0, 0, fmt.Errorf("sense bme280: %w", err)
	}

	hum := float64(env.Humidity) / float64(physic.PercentRH)
	temp := float64(env.Temperature-physic.ZeroCelsius) / float64(physic.Celsius)
	return hum, temp, nil
}

// Close halts the sensor and releases the bus.
func (b *BME280) Close() error {
	var errs []error

	if b.dev != nil {
		if err := b.dev.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt bme280: %w", err))
		}
	}
	if b.bus != nil {
		if err := b.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
