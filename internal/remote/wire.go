// Package remote translates inbound wire messages into typed Instructions
// and serialises outbound state/event messages, per spec.md §4.7/§6.2.
// Wire payloads are MessagePack, lowerCamelCase field names, matching the
// original Rust implementation's rmp_serde usage for both directions.
package remote

// clipCommandWire is the "clipCommands" plug payload.
type clipCommandWire struct {
	Command      string   `msgpack:"command"`
	ClipName     string   `msgpack:"clipName"`
	FadeDuration *uint32  `msgpack:"fadeDuration,omitempty"`
	PanPosition  *float64 `msgpack:"panPosition,omitempty"`
	PanSpread    *float64 `msgpack:"panSpread,omitempty"`
	Volume       *float64 `msgpack:"volume,omitempty"`
}

// sceneWire is the "scenes" plug payload. ClipNames and SceneName are
// mutually exclusive; SceneName is the SPEC_FULL §12 manifest-scene
// shortcut and is not part of spec.md's base wire schema.
type sceneWire struct {
	Mode         string   `msgpack:"mode,omitempty"`
	ClipNames    []string `msgpack:"clipNames,omitempty"`
	SceneName    string   `msgpack:"sceneName,omitempty"`
	FadeDuration *uint32  `msgpack:"fadeDuration,omitempty"`
}

// globalWire is the "globalControls" plug payload.
type globalWire struct {
	Command string   `msgpack:"command"`
	Volume  *float64 `msgpack:"volume,omitempty"`
}

// clipStateWire is one entry of an outbound "state" message.
type clipStateWire struct {
	ID            int      `msgpack:"id"`
	Name          string   `msgpack:"name"`
	Progress      *float64 `msgpack:"progress,omitempty"`
	CurrentVolume float64  `msgpack:"currentVolume"`
	Looping       bool     `msgpack:"looping"`
	Phase         string   `msgpack:"phase"`
}

type stateWire struct {
	Clips []clipStateWire `msgpack:"clips"`
}

// eventWire is the outbound "events" plug payload: a discriminated union of
// ClipStarted(name) | ClipEnded(name), tagged the way protocol.go tags its
// ControlMsg union by a "type" string field.
type eventWire struct {
	Type string `msgpack:"type"`
	Name string `msgpack:"name"`
}

const (
	eventClipStarted = "clipStarted"
	eventClipEnded   = "clipEnded"
)
