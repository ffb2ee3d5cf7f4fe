package vertical

import (
	"testing"

	"bachgen/tick"
)

func TestIsSafeNoOthers(t *testing.T) {
	c := &Context{}
	if !c.IsSafe(0, 0, 60) {
		t.Error("no sounding notes should always be safe")
	}
}

func TestStrongBeatRejectsDissonance(t *testing.T) {
	c := &Context{Placed: []tick.Note{{StartTick: 0, Duration: 480, Pitch: 60, VoiceID: 1}}}
	if c.IsSafe(0, 0, 61) { // m2 against bass on strong beat
		t.Error("m2 on strong beat should be unsafe")
	}
	if !c.IsSafe(0, 0, 67) { // P5
		t.Error("P5 on strong beat should be safe")
	}
}

func TestWeakBeatHarshRejectedWithoutPredicate(t *testing.T) {
	c := &Context{Placed: []tick.Note{{StartTick: 0, Duration: 480, Pitch: 60, VoiceID: 1}}}
	if c.IsSafe(240, 0, 66) { // tritone on weak beat, no predicate
		t.Error("tritone on weak beat should be unsafe without predicate")
	}
}

func TestWeakBeatPredicateOverride(t *testing.T) {
	c := &Context{
		Placed: []tick.Note{{StartTick: 0, Duration: 480, Pitch: 60, VoiceID: 1}},
		WeakBeatAllow: func(t, voice, cand, other, si, prev int) bool {
			return true
		},
	}
	if !c.IsSafe(240, 0, 66) {
		t.Error("predicate should allow the tritone")
	}
}

func TestScoreZeroWhenUnsafe(t *testing.T) {
	c := &Context{Placed: []tick.Note{{StartTick: 0, Duration: 480, Pitch: 60, VoiceID: 1}}}
	if c.Score(0, 0, 61) != 0.0 {
		t.Error("unsafe candidate should score 0")
	}
}

func TestFindPrevPitch(t *testing.T) {
	c := &Context{Placed: []tick.Note{
		{StartTick: 0, Duration: 240, Pitch: 62, VoiceID: 0},
		{StartTick: 240, Duration: 240, Pitch: 64, VoiceID: 0},
	}}
	if got := c.FindPrevPitch(0, 480); got != 64 {
		t.Errorf("FindPrevPitch = %d, want 64", got)
	}
	if got := c.FindPrevPitch(1, 480); got != 0 {
		t.Errorf("FindPrevPitch for unused voice = %d, want 0", got)
	}
}
