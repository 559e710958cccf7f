package output

import "testing"

func TestSinkMixesGainedMonoIntoChannel(t *testing.T) {
	src := &memSource{data: []float32{0.5, 0.5, 0.5, 0.5}}
	s := NewSink(src, 1, nil, false)
	s.SetGain(0.5)

	out := make([]float32, 4)
	s.mixInto(out, 4)

	for i, v := range out {
		if v != 0.25 {
			t.Errorf("frame %d: expected 0.25, got %v", i, v)
		}
	}
}

func TestSinkMarksEmptyOnNaturalEndWhenNotLooping(t *testing.T) {
	src := &memSource{data: []float32{1, 1}}
	s := NewSink(src, 1, nil, false)
	s.SetGain(1)

	out := make([]float32, 4)
	s.mixInto(out, 4)

	if !s.IsEmpty() {
		t.Fatalf("expected sink to be marked empty after source exhausted")
	}
}

func TestSinkLoopsInsteadOfEmptying(t *testing.T) {
	src := &memSource{data: []float32{1, 1}}
	s := NewSink(src, 1, nil, true)
	s.SetGain(1)

	out := make([]float32, 4)
	s.mixInto(out, 4)

	if s.IsEmpty() {
		t.Fatalf("looping sink should not report empty on natural end")
	}
}

func TestSinkPanGainsRouteAcrossChannels(t *testing.T) {
	src := &memSource{data: []float32{1}}
	s := NewSink(src, 2, []float64{0.25, 0.75}, false)
	s.SetGain(1)

	out := make([]float32, 2)
	s.mixInto(out, 1)

	if out[0] != 0.25 || out[1] != 0.75 {
		t.Fatalf("expected [0.25, 0.75], got %v", out)
	}
}

func TestMixerClampsSummedOutput(t *testing.T) {
	m := NewMixer(1)
	for i := 0; i < 3; i++ {
		src := &memSource{data: []float32{1, 1}}
		s := NewSink(src, 1, nil, true)
		s.SetGain(1)
		m.Add(s)
	}

	out := make([]float32, 2)
	m.Mix(out, 2)

	for _, v := range out {
		if v != 1 {
			t.Errorf("expected clamped output of 1, got %v", v)
		}
	}
}

func TestMixerPruneRemovesEmptySinks(t *testing.T) {
	m := NewMixer(1)
	alive := NewSink(&memSource{data: []float32{1, 1, 1}}, 1, nil, true)
	dead := NewSink(&memSource{data: []float32{1}}, 1, nil, false)
	m.Add(alive)
	m.Add(dead)

	out := make([]float32, 2)
	dead.mixInto(out, 2) // short read exhausts the non-looping source, marking it empty

	if m.ActiveCount() != 2 {
		t.Fatalf("expected 2 sinks before prune, got %d", m.ActiveCount())
	}
	m.Prune()
	if m.ActiveCount() != 1 {
		t.Fatalf("expected 1 sink after prune, got %d", m.ActiveCount())
	}
}
