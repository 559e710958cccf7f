package engine

import (
	"time"

	"github.com/randomstudio/soundscape-engine/internal/action"
	"github.com/randomstudio/soundscape-engine/internal/clip"
	"github.com/randomstudio/soundscape-engine/internal/remote"
)

// applyActions pops queued actions LIFO until empty, per spec.md §4.6 step
// 3. Clients must not rely on intra-batch order.
func (e *Engine) applyActions(now time.Time) {
	for {
		a, ok := e.queue.Pop()
		if !ok {
			return
		}
		if a.Play {
			e.applyPlay(a, now)
		} else {
			e.applyStop(a, now)
		}
	}
}

func (e *Engine) applyPlay(a action.Action, now time.Time) {
	desc, ok := e.bank.FindByName(a.Name)
	if !ok {
		e.logger.Error("play: unknown clip name", "name", a.Name)
		return
	}

	id := e.nextID
	e.nextID++

	pc, err := clip.New(id, desc, a.Looping, a.Volume, a.Fade, a.Pan, e.channels, now)
	if err != nil {
		e.logger.Error("play: failed to construct clip", "name", a.Name, "err", err)
		return
	}

	e.playing = append(e.playing, pc)
	e.mixer.Add(pc.Sink())

	if e.publisher != nil {
		if err := e.publisher.PublishClipStarted(pc.Name); err != nil {
			logError("publish ClipStarted", err)
		} else {
			e.stats.OutEvent = now
		}
	}
	e.logger.Info("clip started", "id", pc.ID, "name", pc.Name, "looping", pc.Looping)
}

func (e *Engine) applyStop(a action.Action, now time.Time) {
	for _, c := range e.playing {
		if c.ID == a.ID {
			if a.Fade != nil {
				c.FadeOut(*a.Fade, now)
			} else {
				c.Stop()
			}
			return
		}
	}
	e.logger.Error("stop: unknown clip id", "id", a.ID)
}

// publishStateIfDue builds and publishes a state snapshot if the state
// publisher's gating allows it this tick (spec.md §4.8).
func (e *Engine) publishStateIfDue(now time.Time) {
	if !e.state.ShouldPublish(now, len(e.playing)) {
		return
	}

	snapshots := make([]remote.ClipSnapshot, 0, len(e.playing))
	for _, c := range e.playing {
		progress, known := c.Progress()
		snapshots = append(snapshots, remote.ClipSnapshot{
			ID: c.ID, Name: c.Name, Progress: progress, ProgressKnown: known,
			CurrentVolume: c.CurrentVolume(), Looping: c.Looping, Phase: c.Phase().String(),
		})
	}

	if err := e.publisher.PublishState(snapshots); err != nil {
		e.logger.Error("publish state", "err", err)
		return
	}
	e.stats.OutState = now
}

// PlayingCount exposes the number of currently playing clips, for
// diagnostics.
func (e *Engine) PlayingCount() int {
	return len(e.playing)
}

// Stats returns a copy of the current message-stats snapshot, for the
// diagnostics HTTP surface.
func (e *Engine) Stats() MessageStats {
	return e.stats
}

// Snapshot returns the current playing-clip state, for the diagnostics
// HTTP surface (spec.md §3: "used by the GUI and for diagnostics only").
func (e *Engine) Snapshot() []remote.ClipSnapshot {
	out := make([]remote.ClipSnapshot, 0, len(e.playing))
	for _, c := range e.playing {
		progress, known := c.Progress()
		out = append(out, remote.ClipSnapshot{
			ID: c.ID, Name: c.Name, Progress: progress, ProgressKnown: known,
			CurrentVolume: c.CurrentVolume(), Looping: c.Looping, Phase: c.Phase().String(),
		})
	}
	return out
}
