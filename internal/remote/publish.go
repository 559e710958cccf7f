package remote

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// ClipSnapshot is the minimal view of a playing clip the state publisher
// needs; internal/engine builds one per tick from its playing-clip vector.
type ClipSnapshot struct {
	ID            int
	Name          string
	Progress      float64
	ProgressKnown bool
	CurrentVolume float64
	Looping       bool
	Phase         string
}

// EncodeState serialises the periodic state snapshot per spec.md §4.8/§6.2.
func EncodeState(clips []ClipSnapshot) ([]byte, error) {
	w := stateWire{Clips: make([]clipStateWire, 0, len(clips))}
	for _, c := range clips {
		entry := clipStateWire{
			ID: c.ID, Name: c.Name, CurrentVolume: c.CurrentVolume,
			Looping: c.Looping, Phase: c.Phase,
		}
		if c.ProgressKnown {
			p := c.Progress
			entry.Progress = &p
		}
		w.Clips = append(w.Clips, entry)
	}
	return msgpack.Marshal(w)
}

// EncodeClipStarted serialises a ClipStarted lifecycle event.
func EncodeClipStarted(name string) ([]byte, error) {
	return msgpack.Marshal(eventWire{Type: eventClipStarted, Name: name})
}

// EncodeClipEnded serialises a ClipEnded lifecycle event.
func EncodeClipEnded(name string) ([]byte, error) {
	return msgpack.Marshal(eventWire{Type: eventClipEnded, Name: name})
}

// StatePublisher gates periodic state publication per spec.md §4.8: it
// no-ops until state_interval has elapsed, and suppresses repeated empty
// states after state_max_empty consecutive sends.
type StatePublisher struct {
	Interval time.Duration
	MaxEmpty int

	lastSent   time.Time
	emptySends int
}

// ShouldPublish reports whether a state message should be built and sent
// now. lastSent only advances on an actual publish (not on a suppressed
// empty state), matching spec.md §4.8's literal step ordering: a
// suppressed tick leaves last_update_sent untouched, so the gate re-opens
// on every subsequent tick until a clip starts playing again.
func (p *StatePublisher) ShouldPublish(now time.Time, clipCount int) bool {
	if !p.lastSent.IsZero() && now.Sub(p.lastSent) <= p.Interval {
		return false
	}

	if clipCount == 0 {
		p.emptySends++
		if p.emptySends > p.MaxEmpty {
			return false
		}
	} else {
		p.emptySends = 0
	}

	p.lastSent = now
	return true
}
