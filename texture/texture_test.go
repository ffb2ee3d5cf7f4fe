package texture

import (
	"testing"

	"bachgen/harmony"
	"bachgen/pitch"
	"bachgen/tick"
)

func baseCtx(kind Kind) Context {
	k := pitch.Key{Tonic: pitch.C}
	tl := harmony.CreateStandard(k, tick.PerBar(tick.FourFour)*2, harmony.Bar)
	return Context{
		TextureKind:   kind,
		Key:           k,
		StartTick:     0,
		DurationTicks: tick.PerBar(tick.FourFour) * 2,
		RegisterLow:   60,
		RegisterHigh:  84,
		RhythmProfile: Sixteenth,
		Seed:          7,
		Timeline:      tl,
	}
}

func checkWindowAndRegister(t *testing.T, notes []tick.Note, ctx Context) {
	end := ctx.StartTick + ctx.DurationTicks
	for _, n := range notes {
		if n.StartTick < ctx.StartTick || n.StartTick >= end {
			t.Errorf("note start %d outside window [%d,%d)", n.StartTick, ctx.StartTick, end)
		}
		if n.Pitch < ctx.RegisterLow || n.Pitch > ctx.RegisterHigh {
			t.Errorf("note pitch %d outside register [%d,%d]", n.Pitch, ctx.RegisterLow, ctx.RegisterHigh)
		}
		if n.Duration <= 0 {
			t.Errorf("note has non-positive duration: %+v", n)
		}
		if n.VoiceID != textureVoiceID {
			t.Errorf("note voice id = %d, want %d", n.VoiceID, textureVoiceID)
		}
	}
}

func TestAllTexturesRespectWindowAndRegister(t *testing.T) {
	kinds := []Kind{SingleLine, ImpliedPolyphony, Arpeggiated, ScalePassage, Bariolage}
	for _, k := range kinds {
		ctx := baseCtx(k)
		notes := Generate(ctx)
		if len(notes) == 0 {
			t.Errorf("kind %d produced no notes", k)
		}
		checkWindowAndRegister(t, notes, ctx)
	}
}

func TestFullChordsEmptyWithoutClimax(t *testing.T) {
	ctx := baseCtx(FullChords)
	ctx.IsClimax = false
	notes := Generate(ctx)
	if len(notes) != 0 {
		t.Errorf("expected no notes without climax, got %d", len(notes))
	}
}

func TestFullChordsAtClimax(t *testing.T) {
	ctx := baseCtx(FullChords)
	ctx.IsClimax = true
	notes := Generate(ctx)
	if len(notes) == 0 {
		t.Fatal("expected notes at climax")
	}
	for _, n := range notes {
		if n.Velocity < 85 {
			t.Errorf("climax note velocity %d below 85 floor", n.Velocity)
		}
	}
	checkWindowAndRegister(t, notes, ctx)
}

func TestTextureDeterministic(t *testing.T) {
	ctx := baseCtx(FullChords)
	ctx.IsClimax = true
	a := Generate(ctx)
	b := Generate(ctx)
	if len(a) != len(b) {
		t.Fatalf("nondeterministic note count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("nondeterministic note %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSubdivisionsSumToBeat(t *testing.T) {
	profiles := []RhythmProfile{QuarterNote, EighthNote, DottedEighth, Triplet, Sixteenth, Mixed8th16th}
	for _, p := range profiles {
		sum := 0
		for _, d := range Subdivisions(p) {
			sum += d
		}
		if sum != tick.Beat {
			t.Errorf("profile %d subdivisions sum to %d, want %d", p, sum, tick.Beat)
		}
	}
}
