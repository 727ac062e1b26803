// Package config holds the mirror's startup configuration. A Config is
// built once (defaults, then an optional YAML file, then command-line
// overrides) and is not modified afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Driver names.
const (
	DriverSimulated = "simulated"
	DriverLepton    = "lepton"
	DriverGPIO      = "gpio"
	DriverBME280    = "bme280"
)

// CameraConfig selects the thermal camera driver.
type CameraConfig struct {
	Driver string `yaml:"driver"`
	SPI    string `yaml:"spi"`
	I2C    string `yaml:"i2c"`
	// Stream format for the simulated driver.
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FPS    float64 `yaml:"fps"`
}

// MotionConfig selects the motion sensor.
type MotionConfig struct {
	Driver      string  `yaml:"driver"`
	Chip        string  `yaml:"chip"`
	Pin         int     `yaml:"pin"`
	IntervalSec float64 `yaml:"interval_sec"`
}

// AmbientConfig selects the temperature/humidity sensor.
type AmbientConfig struct {
	Driver  string `yaml:"driver"`
	I2C     string `yaml:"i2c"`
	Address uint16 `yaml:"address"`
}

// DisplayConfig sets the rendered thermal image size. Zero keeps the
// camera's native size.
type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// MQTTConfig configures telemetry publishing.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// Config is the complete mirror configuration.
type Config struct {
	QueueCapacity       int     `yaml:"queue_capacity"`
	SleepTimeoutSec     float64 `yaml:"sleep_timeout_sec"`
	MaxFrameTimeSec     float64 `yaml:"screen_max_frame_time_sec"`
	FrameWaitSec        float64 `yaml:"frame_wait_sec"`
	AmbientPollDelaySec float64 `yaml:"ambient_temp_delay_sec"`
	MotionDebounceSec   float64 `yaml:"motion_debounce_sec"`
	HeartbeatSec        float64 `yaml:"heartbeat_sec"`
	UseHumiditySensor   bool    `yaml:"use_humidity_sensor"`
	DisplayDebugPanel   bool    `yaml:"display_debug_panel"`
	DisplayHostIP       bool    `yaml:"display_host_ip"`
	DisplaySleepTimer   bool    `yaml:"display_sleep_timer"`
	HTTPAddr            string  `yaml:"http"`

	Display DisplayConfig `yaml:"display"`
	Camera  CameraConfig  `yaml:"camera"`
	Motion  MotionConfig  `yaml:"motion"`
	Ambient AmbientConfig `yaml:"ambient"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
}

// Default returns the reference configuration: a 10-frame buffer, 10 s sleep
// timeout, ~30 Hz render loop and 5 s ambient poll, on simulated hardware.
func Default() Config {
	return Config{
		QueueCapacity:       10,
		SleepTimeoutSec:     10,
		MaxFrameTimeSec:     0.033,
		FrameWaitSec:        0.005,
		AmbientPollDelaySec: 5,
		HeartbeatSec:        900,
		UseHumiditySensor:   true,
		DisplayDebugPanel:   true,
		DisplayHostIP:       true,
		DisplaySleepTimer:   true,
		HTTPAddr:            ":8080",
		Display:             DisplayConfig{Width: 640, Height: 480},
		Camera: CameraConfig{
			Driver: DriverSimulated,
			Width:  160,
			Height: 120,
			FPS:    9,
		},
		Motion: MotionConfig{
			Driver:      DriverSimulated,
			Chip:        "gpiochip0",
			Pin:         7,
			IntervalSec: 30,
		},
		Ambient: AmbientConfig{
			Driver:  DriverSimulated,
			Address: 0x76,
		},
		MQTT: MQTTConfig{TopicPrefix: "home/mirror"},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if c.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("queue_capacity must be positive, got %d", c.QueueCapacity))
	}
	if c.SleepTimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("sleep_timeout_sec must be positive, got %v", c.SleepTimeoutSec))
	}
	if c.MaxFrameTimeSec <= 0 {
		errs = append(errs, fmt.Errorf("screen_max_frame_time_sec must be positive, got %v", c.MaxFrameTimeSec))
	}
	if c.FrameWaitSec < 0 || c.FrameWaitSec >= c.MaxFrameTimeSec {
		errs = append(errs, fmt.Errorf("frame_wait_sec must be in [0, screen_max_frame_time_sec), got %v", c.FrameWaitSec))
	}
	if c.AmbientPollDelaySec < 0 {
		errs = append(errs, fmt.Errorf("ambient_temp_delay_sec must not be negative, got %v", c.AmbientPollDelaySec))
	}
	if c.MotionDebounceSec < 0 {
		errs = append(errs, fmt.Errorf("motion_debounce_sec must not be negative, got %v", c.MotionDebounceSec))
	}
	if c.HeartbeatSec < 0 {
		errs = append(errs, fmt.Errorf("heartbeat_sec must not be negative, got %v", c.HeartbeatSec))
	}
	if c.Display.Width < 0 || c.Display.Height < 0 {
		errs = append(errs, fmt.Errorf("display size must not be negative, got %dx%d", c.Display.Width, c.Display.Height))
	}

	switch c.Camera.Driver {
	case DriverLepton:
	case DriverSimulated:
		if c.Camera.Width <= 0 || c.Camera.Height <= 0 || c.Camera.FPS <= 0 {
			errs = append(errs, fmt.Errorf("simulated camera needs positive width, height and fps"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown camera driver %q", c.Camera.Driver))
	}

	switch c.Motion.Driver {
	case DriverGPIO:
		if c.Motion.Pin < 0 {
			errs = append(errs, fmt.Errorf("motion pin must not be negative, got %d", c.Motion.Pin))
		}
	case DriverSimulated:
	default:
		errs = append(errs, fmt.Errorf("unknown motion driver %q", c.Motion.Driver))
	}

	if c.UseHumiditySensor {
		switch c.Ambient.Driver {
		case DriverBME280, DriverSimulated:
		default:
			errs = append(errs, fmt.Errorf("unknown ambient driver %q", c.Ambient.Driver))
		}
	}

	return errors.Join(errs...)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// SleepTimeout is the idle time before the display goes passive.
func (c Config) SleepTimeout() time.Duration { return seconds(c.SleepTimeoutSec) }

// MaxFrameTime is the render loop tick period.
func (c Config) MaxFrameTime() time.Duration { return seconds(c.MaxFrameTimeSec) }

// FrameWait bounds how long a tick waits for a camera frame.
func (c Config) FrameWait() time.Duration { return seconds(c.FrameWaitSec) }

// AmbientPollInterval is the minimum time between ambient sensor reads.
func (c Config) AmbientPollInterval() time.Duration { return seconds(c.AmbientPollDelaySec) }

// MotionDebounce is how long motion must persist before it counts.
func (c Config) MotionDebounce() time.Duration { return seconds(c.MotionDebounceSec) }

// Heartbeat is the heartbeat interval; zero disables heartbeats.
func (c Config) Heartbeat() time.Duration { return seconds(c.HeartbeatSec) }

// MotionInterval is the simulated motion period.
func (c Config) MotionInterval() time.Duration { return seconds(c.Motion.IntervalSec) }

// CameraInterval is the simulated camera frame period.
func (c Config) CameraInterval() time.Duration {
	if c.Camera.FPS <= 0 {
		return 0
	}
	return seconds(1 / c.Camera.FPS)
}
