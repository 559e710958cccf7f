// Package action defines the coordinator's instruction/action types and
// the LIFO queue that decouples local and remote control paths.
package action

import (
	"time"

	"github.com/randomstudio/soundscape-engine/internal/bank"
)

// SceneMode selects how a Scene instruction is reconciled against the
// currently-playing set.
type SceneMode string

const (
	LoopAll              SceneMode = "loopAll"
	OnceAll              SceneMode = "onceAll"
	OnceRandomSinglePick SceneMode = "onceRandom"
)

// InstructionKind discriminates the Instruction tagged union.
type InstructionKind int

const (
	InstructionAdd InstructionKind = iota
	InstructionRemove
	InstructionScene
	InstructionGlobal
)

// GlobalKind discriminates the Global instruction's sub-command.
type GlobalKind int

const (
	GlobalPauseAll GlobalKind = iota
	GlobalResumeAll
	GlobalSilenceAll
	GlobalMasterVolume
)

// Instruction is what the remote adapter produces from one inbound
// message, per spec.md §3.
type Instruction struct {
	Kind InstructionKind

	// Add / Remove
	Name    string
	FadeMs  *uint32
	Volume  *float64
	Pan     *bank.Pan
	Looping bool // Add only: true for "add" (looping), false for "hit" (one-shot)

	// Scene
	Mode      SceneMode
	Names     []string
	SceneName string // manifest-declared scene shortcut, SPEC_FULL §12; resolved by the coordinator

	// Global
	Global       GlobalKind
	MasterVolume float64
}

// Action is a queued side-effect produced from translating one Instruction.
// Actions are decoupled from their source so local UI and remote commands
// share one path (spec.md §4.5).
type Action struct {
	Play bool // true: Play fields apply; false: Stop fields apply

	// Play
	Name    string
	Volume  *float64
	Fade    *time.Duration
	Looping bool
	Pan     *bank.Pan

	// Stop
	ID int
}

// NewPlay constructs a Play action.
func NewPlay(name string, volume *float64, fade *time.Duration, looping bool, pan *bank.Pan) Action {
	return Action{Play: true, Name: name, Volume: volume, Fade: fade, Looping: looping, Pan: pan}
}

// NewStop constructs a Stop action.
func NewStop(id int, fade *time.Duration) Action {
	return Action{Play: false, ID: id, Fade: fade}
}

// Queue is a simple LIFO buffer, drained to exhaustion each tick. Owned
// exclusively by the control context; not safe for concurrent use.
type Queue struct {
	items []Action
}

// Push appends an action to the top of the stack.
func (q *Queue) Push(a Action) {
	q.items = append(q.items, a)
}

// Pop removes and returns the most recently pushed action. ok is false
// when the queue is empty.
func (q *Queue) Pop() (a Action, ok bool) {
	if len(q.items) == 0 {
		return Action{}, false
	}
	last := len(q.items) - 1
	a = q.items[last]
	q.items = q.items[:last]
	return a, true
}

// Len reports the number of pending actions.
func (q *Queue) Len() int {
	return len(q.items)
}
