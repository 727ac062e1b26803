// Command smart-mirror runs the mirror's thermal display pipeline: it streams
// frames from a thermal camera, renders them with the ambient reading, and
// sleeps the display when no motion has been seen for a while.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sweeney/smart-mirror/internal/ambient"
	"github.com/sweeney/smart-mirror/internal/camera"
	"github.com/sweeney/smart-mirror/internal/config"
	"github.com/sweeney/smart-mirror/internal/display"
	"github.com/sweeney/smart-mirror/internal/logic"
	"github.com/sweeney/smart-mirror/internal/mqtt"
	"github.com/sweeney/smart-mirror/internal/sensor"
	"github.com/sweeney/smart-mirror/internal/status"
	"github.com/sweeney/smart-mirror/internal/thermal"
	"github.com/sweeney/smart-mirror/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults apply when empty)")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	simulate := flag.Bool("simulate", false, "Use simulated camera and sensors")
	printState := flag.Bool("print-state", false, "Print current sensor readings and exit")

	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	// Flags override the file only when given explicitly.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "broker":
			cfg.MQTT.Broker = *broker
		case "http":
			cfg.HTTPAddr = *httpAddr
		case "heartbeat":
			cfg.HeartbeatSec = heartbeat.Seconds()
		}
	})
	if *simulate {
		cfg.Camera.Driver = config.DriverSimulated
		cfg.Motion.Driver = config.DriverSimulated
		cfg.Ambient.Driver = config.DriverSimulated
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: invalid config: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(cfg config.Config, printState bool) error {
	// Sensors first: they are released last, after the camera chain.
	motion, err := openMotion(cfg, time.Now)
	if err != nil {
		return fmt.Errorf("init motion sensor: %w", err)
	}
	defer motion.Close()

	var ambientSensor sensor.Ambient
	if cfg.UseHumiditySensor {
		ambientSensor, err = openAmbient(cfg, time.Now)
		if err != nil {
			return fmt.Errorf("init ambient sensor: %w", err)
		}
		defer ambientSensor.Close()
	}

	if printState {
		return printSensors(os.Stdout, motion, ambientSensor)
	}

	// Camera chain: driver context, device, stream.
	camCtx, err := openCamera(cfg)
	if err != nil {
		return fmt.Errorf("init camera: %w", err)
	}
	defer camCtx.Close()

	dev, err := camCtx.Open()
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer dev.Close()

	formats := dev.Formats()
	if len(formats) == 0 {
		return camera.ErrNoFormat
	}
	format := formats[0]

	buffer := thermal.NewBuffer(cfg.QueueCapacity)
	source := thermal.NewSource(buffer)

	stream, err := dev.Start(format, source.HandleFrame)
	if err != nil {
		return fmt.Errorf("start camera stream: %w", err)
	}
	defer stream.Stop()
	log.Printf("camera streaming %dx%d at %.1f fps", format.Width, format.Height, format.FPS())

	bootID := uuid.NewString()

	// Initialize MQTT
	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, "smart-mirror-"+bootID[:8], mqtt.NewTopics(cfg.MQTT.TopicPrefix))
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher = p
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), bootID, statusConfig(cfg))
	tracker.SetNetwork(networkInfo(cfg.DisplayHostIP))

	panels := newPanels(cfg)

	var poller *ambient.Poller
	if ambientSensor != nil {
		poller = ambient.NewPoller(ambientSensor, cfg.AmbientPollInterval())
		// Prime the data panel before the first frame.
		r, _, err := poller.Poll(time.Now())
		if err != nil {
			return err
		}
		tracker.SetAmbient(r)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: boot=%s sleep=%v frame=%v ambient=%v broker=%q heartbeat=%v",
		bootID, cfg.SleepTimeout(), cfg.MaxFrameTime(), cfg.AmbientPollInterval(), cfg.MQTT.Broker, cfg.Heartbeat())

	ticker := time.NewTicker(cfg.MaxFrameTime())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return runLoop(pipeline{
		buffer:     buffer,
		source:     source,
		motion:     motion,
		poller:     poller,
		panels:     panels,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		render:     thermal.Options{Width: cfg.Display.Width, Height: cfg.Display.Height},
		frameWait:  cfg.FrameWait(),
		sleep:      cfg.SleepTimeout(),
		debounce:   cfg.MotionDebounce(),
		heartbeat:  cfg.Heartbeat(),
	}, time.Now, ticker.C, sigCh)
}

// newPanels builds the panel set: the heat image always, the data panel
// with the humidity sensor, and the debug panel when enabled.
func newPanels(cfg config.Config) *display.Controller {
	panels := []display.Panel{display.NewFlagPanel(display.PanelHeat)}
	if cfg.UseHumiditySensor {
		panels = append(panels, display.NewFlagPanel(display.PanelData))
	}
	if cfg.DisplayDebugPanel {
		panels = append(panels, display.NewFlagPanel(display.PanelDebug))
	}
	return display.NewController(panels...)
}

func statusConfig(cfg config.Config) status.Config {
	sc := status.Config{
		SleepTimeout:      cfg.SleepTimeout(),
		FrameTime:         cfg.MaxFrameTime(),
		AmbientPoll:       cfg.AmbientPollInterval(),
		Heartbeat:         cfg.Heartbeat(),
		QueueCapacity:     cfg.QueueCapacity,
		CameraDriver:      cfg.Camera.Driver,
		MotionDriver:      cfg.Motion.Driver,
		Broker:            cfg.MQTT.Broker,
		HTTPAddr:          cfg.HTTPAddr,
		UseHumiditySensor: cfg.UseHumiditySensor,
		DebugPanel:        cfg.DisplayDebugPanel,
		ShowHostIP:        cfg.DisplayHostIP,
		ShowSleepTimer:    cfg.DisplaySleepTimer,
	}
	if cfg.UseHumiditySensor {
		sc.AmbientDriver = cfg.Ambient.Driver
	}
	return sc
}

// pipeline is everything the render loop owns.
type pipeline struct {
	buffer     *thermal.Buffer
	source     *thermal.Source
	motion     sensor.Motion
	poller     *ambient.Poller // nil without a humidity sensor
	panels     *display.Controller
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	render     thermal.Options
	frameWait  time.Duration
	sleep      time.Duration
	debounce   time.Duration
	heartbeat  time.Duration
}

// runLoop runs one render tick per tick until a signal arrives or a sensor
// fails. Sensor failures are returned; everything else is logged.
func runLoop(p pipeline, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	machine := logic.NewMachine(p.sleep, p.debounce, now())

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			publishShutdown(p, now(), signalName)
			return nil

		case <-tick:
			t := now()
			if err := renderTick(p, machine, t); err != nil {
				publishShutdown(p, now(), "SENSOR_FAULT")
				return err
			}
		}
	}
}

func renderTick(p pipeline, machine *logic.Machine, t time.Time) error {
	// At most one frame per tick; an empty buffer just means no new frame.
	if frame, ok := p.buffer.TryPop(p.frameWait); ok && p.panels.Shown() {
		p.tracker.SetFrame(thermal.Process(frame, p.render), t)
	}

	motion, err := p.motion.Sense()
	if err != nil {
		return fmt.Errorf("read motion sensor: %w", err)
	}

	events := machine.Process(logic.Input{Motion: motion, Time: t})
	for _, event := range events {
		switch event.Type {
		case logic.EventSleep:
			p.panels.Hide()
		case logic.EventWake:
			p.panels.Show()
		}
		log.Printf("event: %s (idle %v)", event.Type, event.IdleFor.Round(100*time.Millisecond))
		if err := p.publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}

	// No ambient polling while passive.
	if p.poller != nil && machine.State() == logic.StateActive {
		r, refreshed, err := p.poller.Poll(t)
		if err != nil {
			return err
		}
		if refreshed {
			p.tracker.SetAmbient(r)
			if err := p.publisher.PublishAmbient(r); err != nil {
				log.Printf("ambient publish error: %v", err)
			}
		}
	}

	// Update status tracker for HTTP consumers
	p.tracker.Update(machine.State(), machine.IdleFor(t), p.panels.Visibility(), machine.EventCountsSnapshot())
	p.tracker.SetPipeline(p.source.Stats(), p.buffer.Len())
	if p.mqttStatus != nil {
		p.tracker.SetMQTTConnected(p.mqttStatus.IsConnected())
	}

	// Check for heartbeat
	if hb := machine.CheckHeartbeat(t, p.heartbeat); hb != nil {
		log.Printf("heartbeat: uptime=%v state=%s sleep=%d wake=%d motion=%d",
			hb.Uptime.Truncate(time.Second), hb.State, hb.Counts.Sleep, hb.Counts.Wake, hb.Counts.Motion)

		// Refresh network info for heartbeat
		p.tracker.SetNetwork(networkInfo(p.tracker.Snapshot().Config.ShowHostIP))
		snap := p.tracker.Snapshot()
		hbEvent := mqtt.SystemEvent{
			Timestamp:  hb.Timestamp,
			Event:      "HEARTBEAT",
			RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
		}
		if err := p.publisher.PublishSystem(hbEvent); err != nil {
			log.Printf("heartbeat publish error: %v", err)
		}
	}

	return nil
}

func publishShutdown(p pipeline, t time.Time, reason string) {
	if p.mqttStatus != nil {
		p.tracker.SetMQTTConnected(p.mqttStatus.IsConnected())
	}
	snap := p.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  t,
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
	}
	if err := p.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}
