// Package bank loads the sound-bank manifest and exposes the immutable clip
// catalog plus any manifest-declared named scenes.
package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Pan is an optional default pan position/spread carried by a clip
// descriptor or a manifest scene.
type Pan struct {
	Position float64
	Spread   float64
}

// ClipDescriptor is one entry in the catalog: immutable after Load.
type ClipDescriptor struct {
	Name   string // as declared in the manifest, case preserved
	Path   string // resolved to an absolute/manifest-relative path
	Volume float64
	Pan    *Pan // nil if the manifest omitted panPosition
}

// Scene is a manifest-declared named shortcut for a Scene instruction,
// letting remote controllers reference a pre-declared clip set by name
// instead of repeating it on every publish (see SPEC_FULL §12).
type Scene struct {
	Name      string
	Mode      string // "loopAll" | "onceAll" | "onceRandom"
	ClipNames []string
}

// Bank is the immutable, read-only-after-load clip catalog.
type Bank struct {
	order  []string // clip names in manifest order, for deterministic iteration
	clips  map[string]ClipDescriptor
	scenes map[string]Scene
}

type manifestClip struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Volume     *float64 `json:"volume,omitempty"`
	PanPos     *float64 `json:"panPosition,omitempty"`
	PanSpread  *float64 `json:"panSpread,omitempty"`
}

type manifestScene struct {
	Name      string   `json:"name"`
	Mode      string   `json:"mode"`
	ClipNames []string `json:"clipNames"`
}

type manifest struct {
	Clips  []manifestClip  `json:"clips"`
	Scenes []manifestScene `json:"scenes,omitempty"`
}

// Load reads and parses the manifest at path, resolving relative clip paths
// against the manifest's own directory. It fails fast: any read, parse,
// uniqueness, or scene-reference error is returned and the caller is
// expected to treat it as a fatal startup error (spec.md §7).
func Load(path string) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %q: %w", path, err)
	}

	dir := filepath.Dir(path)
	b := &Bank{
		clips:  make(map[string]ClipDescriptor, len(m.Clips)),
		scenes: make(map[string]Scene, len(m.Scenes)),
	}

	for _, mc := range m.Clips {
		if mc.Name == "" {
			return nil, fmt.Errorf("manifest %q: clip with empty name", path)
		}
		key := strings.ToLower(mc.Name)
		if _, dup := b.clips[key]; dup {
			return nil, fmt.Errorf("manifest %q: duplicate clip name %q (case-insensitive)", path, mc.Name)
		}

		volume := 1.0
		if mc.Volume != nil {
			volume = *mc.Volume
		}

		var p *Pan
		if mc.PanPos != nil {
			spread := 1.0
			if mc.PanSpread != nil {
				spread = *mc.PanSpread
			}
			p = &Pan{Position: *mc.PanPos, Spread: spread}
		}

		clipPath := mc.Path
		if !filepath.IsAbs(clipPath) {
			clipPath = filepath.Join(dir, clipPath)
		}

		b.clips[key] = ClipDescriptor{Name: mc.Name, Path: clipPath, Volume: volume, Pan: p}
		b.order = append(b.order, mc.Name)
	}

	for _, ms := range m.Scenes {
		if ms.Name == "" {
			return nil, fmt.Errorf("manifest %q: scene with empty name", path)
		}
		key := strings.ToLower(ms.Name)
		if _, dup := b.scenes[key]; dup {
			return nil, fmt.Errorf("manifest %q: duplicate scene name %q (case-insensitive)", path, ms.Name)
		}
		for _, clipName := range ms.ClipNames {
			if _, ok := b.clips[strings.ToLower(clipName)]; !ok {
				return nil, fmt.Errorf("manifest %q: scene %q references unknown clip %q", path, ms.Name, clipName)
			}
		}
		mode := ms.Mode
		if mode == "" {
			mode = "loopAll"
		}
		b.scenes[key] = Scene{Name: ms.Name, Mode: mode, ClipNames: ms.ClipNames}
	}

	return b, nil
}

// Clips returns the catalog's clip descriptors in manifest order.
func (b *Bank) Clips() []ClipDescriptor {
	out := make([]ClipDescriptor, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.clips[strings.ToLower(name)])
	}
	return out
}

// FindByName performs a case-insensitive lookup of a clip descriptor.
func (b *Bank) FindByName(name string) (ClipDescriptor, bool) {
	d, ok := b.clips[strings.ToLower(name)]
	return d, ok
}

// FindScene performs a case-insensitive lookup of a manifest-declared scene.
func (b *Bank) FindScene(name string) (Scene, bool) {
	s, ok := b.scenes[strings.ToLower(name)]
	return s, ok
}
