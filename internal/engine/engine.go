// Package engine implements the command coordinator: the per-tick control
// loop that drains inbound messages, applies queued actions, advances
// playing clips, and publishes state/events. This is the "Model" of
// spec.md §4.6 — the coordinator owns everything the control context
// touches and needs no locks internally.
package engine

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/randomstudio/soundscape-engine/internal/action"
	"github.com/randomstudio/soundscape-engine/internal/bank"
	"github.com/randomstudio/soundscape-engine/internal/clip"
	"github.com/randomstudio/soundscape-engine/internal/output"
	"github.com/randomstudio/soundscape-engine/internal/remote"
)

// MessageStats tracks per-channel last-seen timestamps, used by the GUI
// and for diagnostics only (spec.md §3).
type MessageStats struct {
	InClip    time.Time
	InScene   time.Time
	InGlobal  time.Time
	OutState  time.Time
	OutEvent  time.Time
}

// Publisher is the outbound half of the remote adapter the coordinator
// drives; satisfied by *remote.Adapter.
type Publisher interface {
	PublishState(clips []remote.ClipSnapshot) error
	PublishClipStarted(name string) error
	PublishClipEnded(name string) error
}

// Receiver is the inbound half of the remote adapter; satisfied by
// *remote.Adapter.
type Receiver interface {
	TryRecv() (remote.InboundMessage, bool)
}

// Engine owns the catalog, the playing-clip vector, the action queue, the
// output mixer, and the optional remote adapter. All mutation happens from
// Tick, called once per control-loop iteration.
type Engine struct {
	bank     *bank.Bank
	mixer    *output.Mixer
	channels int

	playing []*clip.PlayingClip
	queue   action.Queue
	nextID  int // monotonic counter; see DESIGN.md for the §9 open-question resolution

	receiver  Receiver
	publisher Publisher

	stats MessageStats
	state remote.StatePublisher

	rng *rand.Rand

	logger *slog.Logger
}

// Config configures a new Engine.
type Config struct {
	Bank     *bank.Bank
	Mixer    *output.Mixer
	Channels int

	Receiver  Receiver
	Publisher Publisher

	StateInterval time.Duration
	StateMaxEmpty int

	Rand *rand.Rand // optional; nil uses the default source
}

// New constructs an Engine.
func New(cfg Config) *Engine {
	r := cfg.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		bank:      cfg.Bank,
		mixer:     cfg.Mixer,
		channels:  cfg.Channels,
		receiver:  cfg.Receiver,
		publisher: cfg.Publisher,
		rng:       r,
		logger:    slog.Default(),
		state: remote.StatePublisher{
			Interval: cfg.StateInterval,
			MaxEmpty: cfg.StateMaxEmpty,
		},
	}
}

// Tick runs one control-loop iteration: internal_update() of spec.md §4.6.
// tickDue indicates the progress-tick producer signalled this iteration.
func (e *Engine) Tick(now time.Time, tickDue bool) {
	if tickDue {
		e.checkProgress(now)
	}
	e.drainMessages(now)
	e.applyActions(now)
	if e.publisher != nil {
		e.publishStateIfDue(now)
	}
}

// checkProgress advances every playing clip's envelope, then removes at
// most the first completed clip found by scan order, per spec.md §4.6
// step 1 and the "at-most-one completion per tick" invariant (§8).
func (e *Engine) checkProgress(now time.Time) {
	for _, c := range e.playing {
		c.UpdateProgress(now)
	}
	e.mixer.Prune()

	for i, c := range e.playing {
		if c.IsCompleted() {
			e.playing = append(e.playing[:i], e.playing[i+1:]...)
			if e.publisher != nil {
				if err := e.publisher.PublishClipEnded(c.Name); err != nil {
					logError("publish ClipEnded", err)
				} else {
					e.stats.OutEvent = now
				}
			}
			e.logger.Info("clip ended", "id", c.ID, "name", c.Name)
			return
		}
	}
}

// drainMessages pulls every currently-buffered inbound message, parses it,
// and translates it into zero or more queued actions.
func (e *Engine) drainMessages(now time.Time) {
	if e.receiver == nil {
		return
	}
	for {
		msg, ok := e.receiver.TryRecv()
		if !ok {
			return
		}
		e.recordStat(msg.Plug, now)

		instr, err := remote.Parse(msg.Plug, msg.Payload)
		if err != nil {
			e.logger.Error("parse inbound message", "plug", msg.Plug, "err", err)
			continue
		}
		e.translate(instr)
	}
}

func (e *Engine) recordStat(plug string, now time.Time) {
	switch plug {
	case remote.PlugClipCommands:
		e.stats.InClip = now
	case remote.PlugScenes:
		e.stats.InScene = now
	case remote.PlugGlobalControls:
		e.stats.InGlobal = now
	}
}

func logError(op string, err error) {
	slog.Default().Error(op, "err", err)
}
