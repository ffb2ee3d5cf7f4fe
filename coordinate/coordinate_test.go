package coordinate

import (
	"testing"

	"bachgen/pitch"
	"bachgen/tick"
)

func cfgFor(k pitch.Key) Config {
	return Config{
		Key:         k,
		Scale:       pitch.DefaultScale(k),
		NumVoices:   2,
		VoiceRanges: map[int]VoiceRange{0: {Low: 48, High: 84}, 1: {Low: 36, High: 72}},
	}
}

func TestImmutablePassesThroughUnchanged(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	notes := []tick.Note{
		{StartTick: 0, Duration: 480, Pitch: 61, VoiceID: 1, Source: tick.PedalPoint},
	}
	placed, diags := Coordinate(notes, cfgFor(k))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(placed) != 1 || placed[0].Pitch != 61 {
		t.Fatalf("immutable note was altered: %+v", placed)
	}
}

func TestLightweightDropsDissonantAgainstPedal(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	notes := []tick.Note{
		{StartTick: 0, Duration: 1920, Pitch: 36, VoiceID: 1, Source: tick.PedalPoint},
		{StartTick: 0, Duration: 480, Pitch: 49, VoiceID: 0, Source: tick.ArpeggioFlow},
	}
	placed, diags := Coordinate(notes, cfgFor(k))
	found := false
	for _, n := range placed {
		if n.VoiceID == 0 {
			found = true
		}
	}
	if found {
		t.Errorf("expected the minor-second-against-pedal arpeggio note to be dropped")
	}
	if len(diags) != 1 {
		t.Errorf("expected one diagnostic, got %d: %v", len(diags), diags)
	}
}

func TestFullTierFindsConsonantAlternative(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	notes := []tick.Note{
		{StartTick: 0, Duration: 960, Pitch: 60, VoiceID: 1, Source: tick.PedalPoint},
		{StartTick: 0, Duration: 480, Pitch: 61, VoiceID: 0, Source: tick.FreeCounterpoint},
	}
	placed, _ := Coordinate(notes, cfgFor(k))
	var upper *tick.Note
	for i := range placed {
		if placed[i].VoiceID == 0 {
			upper = &placed[i]
		}
	}
	if upper == nil {
		t.Fatal("expected the upper voice note to be placed via a consonant alternative")
	}
	si := pitch.SimpleInterval(upper.Pitch, 60)
	if !pitch.IsPerfectConsonance(si) && !pitch.IsImperfectConsonance(si) {
		t.Errorf("chosen alternative %d is not consonant against bass 60", upper.Pitch)
	}
}

func TestOutputSortedByTickThenVoice(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	notes := []tick.Note{
		{StartTick: 480, Duration: 480, Pitch: 64, VoiceID: 1, Source: tick.PedalPoint},
		{StartTick: 0, Duration: 480, Pitch: 60, VoiceID: 0, Source: tick.PedalPoint},
		{StartTick: 0, Duration: 480, Pitch: 55, VoiceID: 1, Source: tick.PedalPoint},
	}
	placed, _ := Coordinate(notes, cfgFor(k))
	for i := 1; i < len(placed); i++ {
		if placed[i].StartTick < placed[i-1].StartTick {
			t.Fatalf("not sorted by tick: %+v", placed)
		}
		if placed[i].StartTick == placed[i-1].StartTick && placed[i].VoiceID < placed[i-1].VoiceID {
			t.Fatalf("not sorted by voice within tick: %+v", placed)
		}
	}
}
