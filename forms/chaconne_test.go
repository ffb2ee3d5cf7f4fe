package forms

import (
	"testing"

	"bachgen/pitch"
	"bachgen/tick"
)

func TestAssembleChaconneBarAlignedDuration(t *testing.T) {
	opt := ChaconneOptions{
		Key:          pitch.Key{Tonic: pitch.D, IsMinor: true},
		NumCycles:    10,
		BarsPerCycle: 2,
		NumVoices:    2,
		Seed:         21,
	}
	p := AssembleChaconne(opt)
	bar := tick.PerBar(tick.FourFour)
	if p.TotalTicks%bar != 0 {
		t.Fatalf("total ticks %d not bar-aligned", p.TotalTicks)
	}
	if len(p.Tracks) != 3 {
		t.Fatalf("expected 3 tracks (2 upper + ground), got %d", len(p.Tracks))
	}
}

func TestAssembleChaconneGroundRepeatsAcrossCycles(t *testing.T) {
	opt := ChaconneOptions{
		Key:          pitch.Key{Tonic: pitch.C, IsMinor: true},
		NumCycles:    6,
		BarsPerCycle: 2,
		NumVoices:    1,
		Seed:         4,
	}
	p := AssembleChaconne(opt)
	bassVoice := len(p.Tracks) - 1
	bass := p.Tracks[bassVoice]
	cycleLen := 2 * tick.PerBar(tick.FourFour)
	var first, second []int
	for _, n := range bass.Notes {
		if n.StartTick < cycleLen {
			first = append(first, n.Pitch)
		} else if n.StartTick < 2*cycleLen {
			second = append(second, n.Pitch)
		}
	}
	if len(first) != len(second) {
		t.Fatalf("ground shapes differ across cycles: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("ground pitch %d differs: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestAssembleChaconneClimaxRaisesVelocity(t *testing.T) {
	opt := ChaconneOptions{
		Key:          pitch.Key{Tonic: pitch.E, IsMinor: true},
		NumCycles:    8,
		BarsPerCycle: 2,
		NumVoices:    2,
		Seed:         77,
	}
	p := AssembleChaconne(opt)
	cycleLen := 2 * tick.PerBar(tick.FourFour)
	lastCycleStart := (opt.NumCycles - 1) * cycleLen
	found := false
	for _, tr := range p.Tracks {
		for _, n := range tr.Notes {
			if n.StartTick >= lastCycleStart && n.Velocity >= 85 {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected at least one climax-velocity note in the final cycle")
	}
}
