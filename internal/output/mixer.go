package output

import "sync/atomic"

// Mixer fans every active Sink's contribution into one interleaved output
// buffer each audio-callback period. Sinks are stored behind an
// atomic.Pointer so the audio callback never locks: the control context
// publishes a new slice (copy-on-write) whenever a clip is added or
// removed; the callback always sees a complete, consistent snapshot.
type Mixer struct {
	channels int
	sinks    atomic.Pointer[[]*Sink]
}

// NewMixer constructs a Mixer for the given active output channel count.
func NewMixer(channels int) *Mixer {
	m := &Mixer{channels: channels}
	empty := make([]*Sink, 0)
	m.sinks.Store(&empty)
	return m
}

// Add appends sink to the active set. Called from the control context on a
// Play action.
func (m *Mixer) Add(sink *Sink) {
	for {
		old := m.sinks.Load()
		next := make([]*Sink, len(*old), len(*old)+1)
		copy(next, *old)
		next = append(next, sink)
		if m.sinks.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Prune removes every sink for which IsEmpty() is true. Called from the
// control context after a clip is confirmed finished, so the audio
// callback stops being handed a dead sink.
func (m *Mixer) Prune() {
	for {
		old := m.sinks.Load()
		next := make([]*Sink, 0, len(*old))
		for _, s := range *old {
			if !s.IsEmpty() {
				next = append(next, s)
			}
		}
		if m.sinks.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Mix writes frameCount frames of interleaved, summed-and-clamped output
// into out (len(out) must be >= frameCount*channels). This is the
// audio-context hot path: it performs no locking and no allocation beyond
// each Sink's own amortised scratch buffer.
func (m *Mixer) Mix(out []float32, frameCount int) {
	for i := range out {
		out[i] = 0
	}
	sinks := *m.sinks.Load()
	for _, s := range sinks {
		s.mixInto(out, frameCount)
	}
	for i, v := range out {
		if v > 1 {
			out[i] = 1
		} else if v < -1 {
			out[i] = -1
		}
	}
}

// ActiveCount returns the number of sinks currently tracked, for diagnostics.
func (m *Mixer) ActiveCount() int {
	return len(*m.sinks.Load())
}
