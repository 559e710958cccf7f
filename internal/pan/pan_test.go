package pan

import "testing"

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}

func assertGains(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("channel %d: got %v want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestZeroDistanceIsMaxVolume(t *testing.T) {
	got := Gains(0, 0, 2)
	assertGains(t, got, []float64{1, 0})
}

func TestHalfwayIsHalfVolume(t *testing.T) {
	got := Gains(1, 1, 2)
	assertGains(t, got, []float64{0.5, 1.0})
}

func TestWholeChannelSpreadStereo(t *testing.T) {
	got := Gains(0, 1, 2)
	assertGains(t, got, []float64{1, 0.5})
}

func TestZeroSpreadQuadRight(t *testing.T) {
	got := Gains(3, 0, 4)
	assertGains(t, got, []float64{0, 0, 0, 1})
}

func TestWholeChannelSpreadQuad(t *testing.T) {
	got := Gains(3, 1, 4)
	assertGains(t, got, []float64{0, 0, 0.5, 1})
}

func TestCentredQuadZeroSpread(t *testing.T) {
	got := Gains(1.5, 0, 4)
	assertGains(t, got, []float64{0, 0.5, 0.5, 0})
}

func TestCentredQuadWholeSpread(t *testing.T) {
	got := Gains(1.5, 1, 4)
	assertGains(t, got, []float64{0.25, 0.75, 0.75, 0.25})
}

func TestCentredEightDoubleSpread(t *testing.T) {
	got := Gains(3, 2, 8)
	assertGains(t, got, []float64{0, 1.0 / 3, 2.0 / 3, 1, 2.0 / 3, 1.0 / 3, 0, 0})
}

func TestInvariantRangeAndPeaks(t *testing.T) {
	for channels := 1; channels <= 8; channels++ {
		for position := 0; position < channels; position++ {
			for spreadI := 0; spreadI <= channels; spreadI++ {
				spread := float64(spreadI)
				gains := Gains(float64(position), spread, channels)
				if len(gains) != channels {
					t.Fatalf("expected %d gains, got %d", channels, len(gains))
				}
				for i, g := range gains {
					if g < 0 || g > 1 {
						t.Fatalf("gain out of range at channels=%d pos=%d spread=%v ch=%d: %v", channels, position, spread, i, g)
					}
				}
				if !almostEqual(gains[position], 1) {
					t.Errorf("expected gains[%d]=1 at channels=%d spread=%v, got %v", position, channels, spread, gains[position])
				}
				if spreadI == 0 {
					ones := 0
					for _, g := range gains {
						if almostEqual(g, 1) {
							ones++
						} else if !almostEqual(g, 0) {
							t.Errorf("zero spread should yield only 0s and 1s, got %v at channels=%d pos=%d", g, channels, position)
						}
					}
					if ones != 1 {
						t.Errorf("zero spread should yield exactly one peak, got %d (channels=%d pos=%d)", ones, channels, position)
					}
				}
			}
		}
	}
}
