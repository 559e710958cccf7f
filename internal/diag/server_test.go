package diag

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/randomstudio/soundscape-engine/internal/engine"
	"github.com/randomstudio/soundscape-engine/internal/remote"
)

type fakeEngine struct {
	playing int
	stats   engine.MessageStats
	clips   []remote.ClipSnapshot
}

func (f *fakeEngine) PlayingCount() int                { return f.playing }
func (f *fakeEngine) Stats() engine.MessageStats        { return f.stats }
func (f *fakeEngine) Snapshot() []remote.ClipSnapshot   { return f.clips }

func TestHealthAndState(t *testing.T) {
	fe := &fakeEngine{
		playing: 2,
		stats:   engine.MessageStats{InClip: time.Now()},
		clips: []remote.ClipSnapshot{
			{ID: 1, Name: "frog", CurrentVolume: 1, Phase: "sustain"},
		},
	}

	s := New(fe)
	ts := httptest.NewServer(s.Echo())
	defer ts.Close()

	healthResp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer healthResp.Body.Close()
	if healthResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", healthResp.StatusCode)
	}
	var health healthResponse
	if err := json.NewDecoder(healthResp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Playing != 2 {
		t.Fatalf("unexpected health payload: %#v", health)
	}

	stateResp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state: %v", err)
	}
	defer stateResp.Body.Close()
	if stateResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /api/state, got %d", stateResp.StatusCode)
	}
	var state stateResponse
	if err := json.NewDecoder(stateResp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if len(state.Clips) != 1 || state.Clips[0].Name != "frog" {
		t.Fatalf("unexpected state payload: %#v", state)
	}
}
