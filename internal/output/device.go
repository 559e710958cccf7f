package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// FrameSize is the number of frames per audio-callback period. Matches the
// teacher's 20ms-at-48kHz convention used throughout client/audio.go.
const FrameSize = 960

// SampleRate is the output stream's sample rate in Hz.
const SampleRate = 48000

// Device owns the real-time output stream. Start/Stop follow the same
// careful ordering as client/audio.go's AudioEngine: Stop stops the stream
// before closing it and terminating portaudio, so no native buffer is
// freed while the callback might still touch it.
type Device struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	mixer  *Mixer

	running bool
}

// NewDevice constructs a Device driving mixer's output.
func NewDevice(mixer *Mixer) *Device {
	return &Device{mixer: mixer}
}

// Start opens and starts the output stream on the named device (empty
// string selects the host API's default output device), using the given
// channel count. Returns an error (never panics) on device resolution or
// stream-open failure, per spec.md §7's "audio device unavailable" fatal
// startup error.
func (d *Device) Start(deviceName string, channels int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialise portaudio: %w", err)
	}

	dev, err := resolveOutputDevice(deviceName)
	if err != nil {
		portaudio.Terminate()
		return err
	}

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: channels,
			Latency:  dev.DefaultLowOutputLatency,
		},
		SampleRate:      SampleRate,
		FramesPerBuffer: FrameSize,
	}

	buf := make([]float32, FrameSize*channels)
	stream, err := portaudio.OpenStream(params, func(out []float32) {
		d.mixer.Mix(buf, FrameSize)
		copy(out, buf)
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open output stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start output stream: %w", err)
	}

	d.stream = stream
	d.running = true
	log.Printf("[output] started device %q, %d channels @ %dHz", dev.Name, channels, SampleRate)
	return nil
}

// Stop stops and closes the output stream. Safe to call on an already-
// stopped Device.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return nil
	}
	d.running = false

	var err error
	if d.stream != nil {
		if stopErr := d.stream.Stop(); stopErr != nil {
			err = stopErr
		}
		if closeErr := d.stream.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		d.stream = nil
	}
	portaudio.Terminate()
	log.Printf("[output] stopped")
	return err
}

func resolveOutputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("resolve default output device: %w", err)
		}
		return dev, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate audio devices: %w", err)
	}
	for _, dev := range devices {
		if dev.Name == name && dev.MaxOutputChannels > 0 {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("output device %q not found", name)
}
