package remote

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/randomstudio/soundscape-engine/internal/action"
)

func TestParseClipCommandHit(t *testing.T) {
	payload, err := msgpack.Marshal(map[string]interface{}{
		"command":  "hit",
		"clipName": "frog",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	instr, err := Parse(PlugClipCommands, payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if instr.Kind != action.InstructionAdd || instr.Looping || instr.Name != "frog" {
		t.Fatalf("unexpected instruction: %+v", instr)
	}
}

func TestParseClipCommandAddIsLooping(t *testing.T) {
	payload, _ := msgpack.Marshal(map[string]interface{}{"command": "add", "clipName": "drone"})
	instr, err := Parse(PlugClipCommands, payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !instr.Looping {
		t.Fatalf("expected add to set Looping=true")
	}
}

func TestParseClipCommandUnknownCommandErrors(t *testing.T) {
	payload, _ := msgpack.Marshal(map[string]interface{}{"command": "bogus", "clipName": "x"})
	if _, err := Parse(PlugClipCommands, payload); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestParseSceneDefaultsToLoopAll(t *testing.T) {
	payload, _ := msgpack.Marshal(map[string]interface{}{"clipNames": []string{"a", "b"}})
	instr, err := Parse(PlugScenes, payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if instr.Mode != action.LoopAll {
		t.Fatalf("expected default mode loopAll, got %v", instr.Mode)
	}
}

func TestParseGlobalMasterVolumeRequiresVolume(t *testing.T) {
	payload, _ := msgpack.Marshal(map[string]interface{}{"command": "masterVolume"})
	if _, err := Parse(PlugGlobalControls, payload); err == nil {
		t.Fatalf("expected error when masterVolume has no volume field")
	}
}

func TestParseUnknownPlugErrors(t *testing.T) {
	if _, err := Parse("bogusPlug", []byte{}); err == nil {
		t.Fatalf("expected error for unknown plug")
	}
}

func TestParseMalformedPayloadErrors(t *testing.T) {
	if _, err := Parse(PlugClipCommands, []byte{0xff, 0xff, 0xff}); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
