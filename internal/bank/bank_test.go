package bank

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "bank.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadResolvesPathsAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{
		"clips": [
			{ "name": "Frog", "path": "frog.wav" },
			{ "name": "Drone", "path": "drone.wav", "volume": 0.5, "panPosition": 2 }
		]
	}`)

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	frog, ok := b.FindByName("fRoG")
	if !ok {
		t.Fatalf("expected case-insensitive lookup to find frog")
	}
	if frog.Volume != 1.0 {
		t.Errorf("expected default volume 1.0, got %v", frog.Volume)
	}
	if frog.Path != filepath.Join(dir, "frog.wav") {
		t.Errorf("expected path resolved relative to manifest dir, got %v", frog.Path)
	}

	drone, ok := b.FindByName("drone")
	if !ok {
		t.Fatalf("expected to find drone")
	}
	if drone.Volume != 0.5 {
		t.Errorf("expected volume 0.5, got %v", drone.Volume)
	}
	if drone.Pan == nil || drone.Pan.Position != 2 || drone.Pan.Spread != 1.0 {
		t.Errorf("expected pan {2, 1.0} default spread, got %+v", drone.Pan)
	}
}

func TestLoadRejectsDuplicateNamesCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{
		"clips": [
			{ "name": "Frog", "path": "a.wav" },
			{ "name": "frog", "path": "b.wav" }
		]
	}`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected duplicate-name error, got nil")
	}
}

func TestLoadFailsFastOnMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}

func TestLoadFailsFastOnMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{ not json `)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed manifest")
	}
}

func TestLoadScenesDefaultModeAndLookup(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{
		"clips": [ { "name": "A", "path": "a.wav" }, { "name": "B", "path": "b.wav" } ],
		"scenes": [ { "name": "Forest", "clipNames": ["A", "B"] } ]
	}`)

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	scene, ok := b.FindScene("forest")
	if !ok {
		t.Fatalf("expected to find scene by case-insensitive name")
	}
	if scene.Mode != "loopAll" {
		t.Errorf("expected default mode loopAll, got %v", scene.Mode)
	}
}
