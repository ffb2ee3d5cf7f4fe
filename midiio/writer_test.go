package midiio

import "testing"

func TestClampMIDIPitchClampsToValidRange(t *testing.T) {
	cases := []struct {
		in   int
		want uint8
	}{
		{-5, 0},
		{0, 0},
		{64, 64},
		{127, 127},
		{200, 127},
	}
	for _, c := range cases {
		if got := clampMIDIPitch(c.in); got != c.want {
			t.Errorf("clampMIDIPitch(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestClampVelocityNeverZero(t *testing.T) {
	if clampVelocity(0) != 1 {
		t.Error("velocity 0 should clamp to 1, not produce a silent note-on")
	}
	if clampVelocity(-10) != 1 {
		t.Error("negative velocity should clamp to 1")
	}
	if clampVelocity(200) != 127 {
		t.Error("velocity above 127 should clamp to 127")
	}
	if clampVelocity(90) != 90 {
		t.Error("in-range velocity should pass through unchanged")
	}
}
