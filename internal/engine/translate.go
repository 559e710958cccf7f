package engine

import (
	"strings"
	"time"

	"github.com/randomstudio/soundscape-engine/internal/action"
)

var silenceFade = 100 * time.Millisecond

// translate converts one Instruction into zero or more queued Actions, the
// coordinator's single piece of non-trivial logic (spec.md §4.6).
func (e *Engine) translate(instr action.Instruction) {
	switch instr.Kind {
	case action.InstructionAdd:
		e.queue.Push(action.NewPlay(instr.Name, instr.Volume, fadeFromMs(instr.FadeMs), instr.Looping, instr.Pan))

	case action.InstructionRemove:
		if id, ok := e.findPlayingByName(instr.Name); ok {
			e.queue.Push(action.NewStop(id, fadeFromMs(instr.FadeMs)))
		} else {
			e.logger.Error("stop: unknown clip name", "name", instr.Name)
		}

	case action.InstructionScene:
		e.translateScene(instr)

	case action.InstructionGlobal:
		e.translateGlobal(instr)
	}
}

func fadeFromMs(ms *uint32) *time.Duration {
	if ms == nil {
		return nil
	}
	d := time.Duration(*ms) * time.Millisecond
	return &d
}

func (e *Engine) findPlayingByName(name string) (int, bool) {
	for _, c := range e.playing {
		if strings.EqualFold(c.Name, name) {
			return c.ID, true
		}
	}
	return 0, false
}

// resolveSceneNames resolves a SceneName shortcut (SPEC_FULL §12) against
// the manifest's declared scenes, falling back to the instruction's own
// mode/names when no SceneName was given.
func (e *Engine) resolveSceneNames(instr action.Instruction) (action.SceneMode, []string) {
	if instr.SceneName == "" {
		return instr.Mode, instr.Names
	}
	scene, ok := e.bank.FindScene(instr.SceneName)
	if !ok {
		e.logger.Error("scene: unknown sceneName", "name", instr.SceneName)
		return instr.Mode, instr.Names
	}
	return action.SceneMode(scene.Mode), scene.ClipNames
}

func (e *Engine) translateScene(instr action.Instruction) {
	mode, names := e.resolveSceneNames(instr)
	fade := fadeFromMs(instr.FadeMs)

	switch mode {
	case action.OnceAll:
		if len(names) == 0 {
			e.stopAll(fade)
			return
		}
		for _, name := range names {
			e.queue.Push(action.NewPlay(name, nil, fade, false, nil))
		}

	case action.LoopAll:
		if len(names) == 0 {
			e.stopAll(fade)
			return
		}
		toAdd, toRemove := e.reconcileLoopAll(names)
		for _, name := range toAdd {
			e.queue.Push(action.NewPlay(name, nil, fade, true, nil))
		}
		for _, id := range toRemove {
			e.queue.Push(action.NewStop(id, fade))
		}

	case action.OnceRandomSinglePick:
		if len(names) == 0 {
			return
		}
		pick := names[e.rng.Intn(len(names))]
		e.queue.Push(action.NewPlay(pick, nil, fade, false, nil))
	}
}

// reconcileLoopAll computes the LoopAll set-difference of spec.md §4.6: the
// names to start (requested \ currently-playing) and the ids to stop
// (currently-playing \ requested), matched case-insensitively. Clips in the
// intersection are left untouched regardless of their looping flag,
// per spec.md §9.
func (e *Engine) reconcileLoopAll(requested []string) (toAdd []string, toRemove []int) {
	requestedSet := make(map[string]bool, len(requested))
	for _, n := range requested {
		requestedSet[strings.ToLower(n)] = true
	}

	playingSet := make(map[string]bool, len(e.playing))
	for _, c := range e.playing {
		playingSet[strings.ToLower(c.Name)] = true
	}

	for _, n := range requested {
		if !playingSet[strings.ToLower(n)] {
			toAdd = append(toAdd, n)
		}
	}
	for _, c := range e.playing {
		if !requestedSet[strings.ToLower(c.Name)] {
			toRemove = append(toRemove, c.ID)
		}
	}
	return toAdd, toRemove
}

func (e *Engine) stopAll(fade *time.Duration) {
	for _, c := range e.playing {
		e.queue.Push(action.NewStop(c.ID, fade))
	}
}

func (e *Engine) translateGlobal(instr action.Instruction) {
	switch instr.Global {
	case action.GlobalPauseAll:
		for _, c := range e.playing {
			c.Pause()
		}
	case action.GlobalResumeAll:
		for _, c := range e.playing {
			c.Resume()
		}
	case action.GlobalSilenceAll:
		fade := silenceFade
		e.stopAll(&fade)
	case action.GlobalMasterVolume:
		for _, c := range e.playing {
			c.SetVolume(instr.MasterVolume)
		}
	}
}
