package remote

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/randomstudio/soundscape-engine/internal/action"
	"github.com/randomstudio/soundscape-engine/internal/bank"
)

// Plug names, matching spec.md §6.2 exactly.
const (
	PlugClipCommands   = "clipCommands"
	PlugScenes         = "scenes"
	PlugGlobalControls = "globalControls"

	PlugState  = "state"
	PlugEvents = "events"
)

// Parse decodes payload received on plug into an Instruction. On any
// decode or validation failure it returns an error; the caller (the
// coordinator) is responsible for logging and dropping the message without
// otherwise affecting state, per spec.md §4.7/§7.
func Parse(plug string, payload []byte) (action.Instruction, error) {
	switch plug {
	case PlugClipCommands:
		return parseClipCommand(payload)
	case PlugScenes:
		return parseScene(payload)
	case PlugGlobalControls:
		return parseGlobal(payload)
	default:
		return action.Instruction{}, fmt.Errorf("unknown plug %q", plug)
	}
}

func fadeDuration(ms *uint32) *time.Duration {
	if ms == nil {
		return nil
	}
	d := time.Duration(*ms) * time.Millisecond
	return &d
}

func parseClipCommand(payload []byte) (action.Instruction, error) {
	var w clipCommandWire
	if err := msgpack.Unmarshal(payload, &w); err != nil {
		return action.Instruction{}, fmt.Errorf("decode clipCommands payload: %w", err)
	}
	if w.ClipName == "" {
		return action.Instruction{}, fmt.Errorf("clipCommands payload missing clipName")
	}

	var pan *bank.Pan
	if w.PanPosition != nil {
		spread := 1.0
		if w.PanSpread != nil {
			spread = *w.PanSpread
		}
		pan = &bank.Pan{Position: *w.PanPosition, Spread: spread}
	}

	switch w.Command {
	case "hit":
		return action.Instruction{
			Kind: action.InstructionAdd, Name: w.ClipName, Looping: false,
			Volume: w.Volume, Pan: pan, FadeMs: w.FadeDuration,
		}, nil
	case "add":
		return action.Instruction{
			Kind: action.InstructionAdd, Name: w.ClipName, Looping: true,
			Volume: w.Volume, Pan: pan, FadeMs: w.FadeDuration,
		}, nil
	case "remove":
		return action.Instruction{
			Kind: action.InstructionRemove, Name: w.ClipName, FadeMs: w.FadeDuration,
		}, nil
	default:
		return action.Instruction{}, fmt.Errorf("unknown clipCommands command %q", w.Command)
	}
}

func parseScene(payload []byte) (action.Instruction, error) {
	var w sceneWire
	if err := msgpack.Unmarshal(payload, &w); err != nil {
		return action.Instruction{}, fmt.Errorf("decode scenes payload: %w", err)
	}

	mode := action.LoopAll
	switch w.Mode {
	case "", string(action.LoopAll):
		mode = action.LoopAll
	case string(action.OnceAll):
		mode = action.OnceAll
	case string(action.OnceRandomSinglePick):
		mode = action.OnceRandomSinglePick
	default:
		return action.Instruction{}, fmt.Errorf("unknown scene mode %q", w.Mode)
	}

	return action.Instruction{
		Kind: action.InstructionScene, Mode: mode, Names: w.ClipNames,
		SceneName: w.SceneName, FadeMs: w.FadeDuration,
	}, nil
}

func parseGlobal(payload []byte) (action.Instruction, error) {
	var w globalWire
	if err := msgpack.Unmarshal(payload, &w); err != nil {
		return action.Instruction{}, fmt.Errorf("decode globalControls payload: %w", err)
	}

	switch w.Command {
	case "pause":
		return action.Instruction{Kind: action.InstructionGlobal, Global: action.GlobalPauseAll}, nil
	case "play":
		return action.Instruction{Kind: action.InstructionGlobal, Global: action.GlobalResumeAll}, nil
	case "silence":
		return action.Instruction{Kind: action.InstructionGlobal, Global: action.GlobalSilenceAll}, nil
	case "masterVolume":
		if w.Volume == nil {
			return action.Instruction{}, fmt.Errorf("masterVolume command missing volume")
		}
		return action.Instruction{Kind: action.InstructionGlobal, Global: action.GlobalMasterVolume, MasterVolume: *w.Volume}, nil
	default:
		return action.Instruction{}, fmt.Errorf("unknown globalControls command %q", w.Command)
	}
}
