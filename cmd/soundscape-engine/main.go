package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/randomstudio/soundscape-engine/internal/bank"
	"github.com/randomstudio/soundscape-engine/internal/diag"
	"github.com/randomstudio/soundscape-engine/internal/engine"
	"github.com/randomstudio/soundscape-engine/internal/output"
	"github.com/randomstudio/soundscape-engine/internal/remote"
	"github.com/randomstudio/soundscape-engine/internal/remote/bus"
)

func main() {
	if len(os.Args) > 1 {
		if RunCLI(os.Args[1:]) {
			return
		}
	}

	sampleBank := flag.String("sampleBank", "assets/demo-bank/manifest.json", "path to the sound-bank manifest")
	headless := flag.Bool("headless", true, "run without a GUI (the only supported mode in this build)")
	updateInterval := flag.Duration("updateInterval", 16*time.Millisecond, "control-loop tick interval")

	tetherDisable := flag.Bool("tether.disable", false, "disable the remote message bus; run on local control only")
	tetherHost := flag.String("tether.host", "tcp://localhost:1883", "message-bus broker address")
	tetherSubscribeID := flag.String("tether.subscribe.id", "+", "subscriber id segment for inbound topics (wildcard by default)")
	tetherID := flag.String("tether.id", "any", "this agent's own id segment, used when publishing state/events")

	outputDevice := flag.String("output.device", "", "output audio device name (empty: host API default)")
	outputChannels := flag.Int("output.channels", 2, "number of output channels")

	statePublishInterval := flag.Duration("statePublish.updateInterval", 40*time.Millisecond, "minimum interval between published state messages")
	statePublishEmptyMax := flag.Int("statePublish.emptyMax", 8, "consecutive empty state messages to publish before suppressing further empty states")

	logLevel := flag.String("loglevel", "info", "log level: debug|info|warn|error")

	diagAddr := flag.String("diag.addr", ":8089", "diagnostics HTTP listen address")
	diagDisable := flag.Bool("diag.disable", false, "disable the diagnostics HTTP surface")
	mqttClientID := flag.String("mqtt.clientID", "", "MQTT client id (empty: auto-generated)")
	mqttQoSCommands := flag.Int("mqtt.qos.commands", 2, "QoS used to subscribe to inbound command plugs")

	flag.Parse()

	configureLogLevel(*logLevel)

	if !*headless {
		log.Fatalf("[main] GUI mode is not supported by this build; pass --headless")
	}

	b, err := bank.Load(*sampleBank)
	if err != nil {
		log.Fatalf("[main] load sound bank: %v", err)
	}
	log.Printf("[main] loaded sound bank %q (%d clips)", *sampleBank, len(b.Clips()))

	mixer := output.NewMixer(*outputChannels)
	device := output.NewDevice(mixer)
	if err := device.Start(*outputDevice, *outputChannels); err != nil {
		log.Fatalf("[main] start output device: %v", err)
	}
	defer device.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Printf("[main] shutting down...")
		cancel()
	}()

	cfg := engine.Config{
		Bank:          b,
		Mixer:         mixer,
		Channels:      *outputChannels,
		StateInterval: *statePublishInterval,
		StateMaxEmpty: *statePublishEmptyMax,
	}

	var adapter *remote.Adapter
	if !*tetherDisable {
		clientID := *mqttClientID
		if clientID == "" {
			clientID = fmt.Sprintf("soundscape-engine-%d", os.Getpid())
		}
		client := bus.New(*tetherHost, clientID)
		adapter = remote.NewAdapter(client, *tetherSubscribeID, *tetherID, byte(*mqttQoSCommands))
		if err := adapter.Start(ctx); err != nil {
			log.Fatalf("[main] start remote bus: %v", err)
		}
		defer adapter.Stop()
		cfg.Receiver = adapter
		cfg.Publisher = adapter
		log.Printf("[main] connected to message bus %q, subscriber id %q, self id %q", *tetherHost, *tetherSubscribeID, *tetherID)
	} else {
		log.Printf("[main] remote bus disabled; running on local control only")
	}

	eng := engine.New(cfg)

	if !*diagDisable {
		diagServer := diag.New(eng)
		go func() {
			if err := diagServer.Run(ctx, *diagAddr); err != nil {
				log.Printf("[diag] server error: %v", err)
			}
		}()
		log.Printf("[main] diagnostics listening on %s", *diagAddr)
	}

	runTickLoop(ctx, eng, *updateInterval)
	log.Printf("[main] stopped")
}

// runTickLoop drives the coordinator's control loop: a ticker-driven,
// non-blocking progress signal feeding Engine.Tick, per spec.md §4.6/§5's
// three-execution-context model (this goroutine is the tick producer and
// also, for simplicity, the control context itself).
func runTickLoop(ctx context.Context, eng *engine.Engine, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			eng.Tick(now, true)
		}
	}
}

func configureLogLevel(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
