package main

import (
	"fmt"
	"io"
	"time"

	"github.com/sweeney/smart-mirror/internal/camera"
	"github.com/sweeney/smart-mirror/internal/config"
	"github.com/sweeney/smart-mirror/internal/sensor"
)

// Driver selection happens once, here; the render loop only sees interfaces.

func openMotion(cfg config.Config, now func() time.Time) (sensor.Motion, error) {
	switch cfg.Motion.Driver {
	case config.DriverGPIO:
		return sensor.NewGPIOMotion(cfg.Motion.Chip, cfg.Motion.Pin)
	case config.DriverSimulated:
		return sensor.NewSimulatedMotion(cfg.MotionInterval(), now), nil
	}
	return nil, fmt.Errorf("unknown motion driver %q", cfg.Motion.Driver)
}

func openAmbient(cfg config.Config, now func() time.Time) (sensor.Ambient, error) {
	switch cfg.Ambient.Driver {
	case config.DriverBME280:
		return sensor.NewBME280(cfg.Ambient.I2C, cfg.Ambient.Address)
	case config.DriverSimulated:
		return sensor.NewSimulatedAmbient(now), nil
	}
	return nil, fmt.Errorf("unknown ambient driver %q", cfg.Ambient.Driver)
}

func openCamera(cfg config.Config) (camera.Context, error) {
	switch cfg.Camera.Driver {
	case config.DriverLepton:
		return camera.NewLepton(cfg.Camera.SPI, cfg.Camera.I2C)
	case config.DriverSimulated:
		return camera.NewSimulated(camera.Format{
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			Interval: cfg.CameraInterval(),
		}), nil
	}
	return nil, fmt.Errorf("unknown camera driver %q", cfg.Camera.Driver)
}

// printSensors reads every sensor once. ambientSensor may be nil.
func printSensors(w io.Writer, motion sensor.Motion, ambientSensor sensor.Ambient) error {
	m, err := motion.Sense()
	if err != nil {
		return fmt.Errorf("read motion sensor: %w", err)
	}
	motionState := "none"
	if m {
		motionState = "detected"
	}
	fmt.Fprintf(w, "Motion: %s\n", motionState)

	if ambientSensor == nil {
		return nil
	}
	hum, temp, err := ambientSensor.Sense()
	if err != nil {
		return fmt.Errorf("read ambient sensor: %w", err)
	}
	fmt.Fprintf(w, "Temperature: %.2f C, Humidity: %.2f %%\n", temp, hum)
	return nil
}
