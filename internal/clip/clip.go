// Package clip implements the per-playing-instance object: an envelope
// driving gain over time, paired with the output-context sink it feeds.
package clip

import (
	"fmt"
	"time"

	"github.com/randomstudio/soundscape-engine/internal/bank"
	"github.com/randomstudio/soundscape-engine/internal/envelope"
	"github.com/randomstudio/soundscape-engine/internal/output"
	"github.com/randomstudio/soundscape-engine/internal/pan"
)

// Pan is an explicit override of a descriptor's default pan.
type Pan = bank.Pan

// PlayingClip is owned exclusively by the coordinator (the control
// context). It never touches raw samples; all audio happens through its
// Sink, which is the only thing shared with the audio context.
type PlayingClip struct {
	ID      int
	Name    string
	Looping bool

	env    *envelope.Envelope
	sink   *output.Sink
	master float64 // MasterVolume multiplier, applied on top of the envelope

	currentVolume float64
}

// New constructs a PlayingClip: it decodes the clip file, builds the pan
// router if a pan is in effect, wraps it in a fresh sink, and initialises
// the envelope in Attack. Mirrors the construction steps of spec.md §4.4.
func New(id int, desc bank.ClipDescriptor, looping bool, volume *float64, fadeIn *time.Duration, panOverride *Pan, channels int, now time.Time) (*PlayingClip, error) {
	src, err := output.LoadWav(desc.Path)
	if err != nil {
		return nil, fmt.Errorf("load clip %q: %w", desc.Name, err)
	}

	effectiveVolume := desc.Volume
	if volume != nil {
		effectiveVolume = *volume
	}

	effectivePan := desc.Pan
	if panOverride != nil {
		effectivePan = panOverride
	}

	var gains []float64
	if effectivePan != nil {
		gains = pan.Gains(effectivePan.Position, effectivePan.Spread, channels)
	}

	sink := output.NewSink(src, channels, gains, looping)

	fade := envelope.DefaultFadeIn
	if fadeIn != nil {
		fade = *fadeIn
	}

	return &PlayingClip{
		ID:      id,
		Name:    desc.Name,
		Looping: looping,
		env:     envelope.New(effectiveVolume, fade, now),
		sink:    sink,
		master:  1.0,
	}, nil
}

// UpdateProgress advances the envelope for this tick and applies the
// resulting gain to the sink. Once the release envelope has fully
// finished it calls Stop itself and returns true; the clip is then
// terminal.
func (c *PlayingClip) UpdateProgress(now time.Time) (releaseFinished bool) {
	gain := c.env.Sample(now)
	c.currentVolume = gain * c.master
	c.sink.SetGain(c.currentVolume)

	if c.env.Phase() == envelope.Release && c.env.Done(now) {
		c.Stop()
		return true
	}
	return false
}

// IsCompleted reports whether the sink has no more data: natural end, or
// Stop was called.
func (c *PlayingClip) IsCompleted() bool {
	return c.sink.IsEmpty()
}

// Progress returns the normalised [0,1) playback position, or false if the
// clip has no known total duration.
func (c *PlayingClip) Progress() (float64, bool) {
	return c.sink.Progress()
}

// Phase returns the envelope's current phase.
func (c *PlayingClip) Phase() envelope.Phase {
	return c.env.Phase()
}

// CurrentVolume returns the last-computed combined (envelope x master) gain.
func (c *PlayingClip) CurrentVolume() float64 {
	return c.currentVolume
}

// FadeOut starts (or restarts) a release tween of the given duration.
func (c *PlayingClip) FadeOut(duration time.Duration, now time.Time) {
	c.env.FadeOut(duration, now)
}

// Stop clears the sink immediately, independent of envelope phase.
func (c *PlayingClip) Stop() {
	c.sink.Clear()
}

// Pause halts playback without losing position.
func (c *PlayingClip) Pause() { c.sink.Pause() }

// Resume continues playback from where it was paused.
func (c *PlayingClip) Resume() { c.sink.Resume() }

// SetVolume applies a master multiplier on top of the envelope, per
// spec.md §4.4 — used by the Global MasterVolume command.
func (c *PlayingClip) SetVolume(v float64) {
	c.master = v
}

// Sink exposes the underlying output sink, e.g. for registration with a Mixer.
func (c *PlayingClip) Sink() *output.Sink {
	return c.sink
}
