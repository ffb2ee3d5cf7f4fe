package forms

import (
	"bachgen/bachrand"
	"bachgen/coordinate"
	"bachgen/harmony"
	"bachgen/pitch"
	"bachgen/texture"
	"bachgen/tick"
)

// ChaconneOptions configures one ground-bass-and-variations assembly.
type ChaconneOptions struct {
	Key          pitch.Key
	NumCycles    int // times the ground repeats
	BarsPerCycle int
	NumVoices    int // voices above the ground bass
	Seed         uint32
	CrossRel     bool
}

// AssembleChaconne repeats a fixed I-IV-V-I ground bass, held as an
// immutable pedal line, under a set of upper voices that rotate through
// every texture kind cycle by cycle and converge on a full-chord climax in
// the final cycle.
func AssembleChaconne(opt ChaconneOptions) Piece {
	numCycles := opt.NumCycles
	if numCycles <= 0 {
		numCycles = 12
	}
	barsPerCycle := opt.BarsPerCycle
	if barsPerCycle <= 0 {
		barsPerCycle = 2
	}
	numUpper := opt.NumVoices
	if numUpper <= 0 {
		numUpper = 2
	}
	numVoices := numUpper + 1
	bassVoice := numVoices - 1 // lowest under the higher-VoiceID-is-lower convention

	scale := pitch.DefaultScale(opt.Key)
	cycleLen := barsPerCycle * tick.PerBar(tick.FourFour)
	totalTicks := cycleLen * numCycles

	groundTL := harmony.CreateStandard(opt.Key, cycleLen, harmony.Section)
	groundEvents := groundTL.Events()

	tl := &harmony.Timeline{}
	for c := 0; c < numCycles; c++ {
		offset := c * cycleLen
		for _, e := range groundEvents {
			e.Tick += offset
			e.EndTick += offset
			tl.Append(e)
		}
	}
	harmony.ApplyCadence(tl, opt.Key, harmony.Perfect)

	var proposed []tick.Note
	for _, e := range tl.Events() {
		proposed = append(proposed, tick.Note{
			StartTick: e.Tick,
			Duration:  e.EndTick - e.Tick,
			Pitch:     e.BassPitch,
			Velocity:  70,
			VoiceID:   bassVoice,
			Source:    tick.PedalPoint,
		})
	}

	outer := bachrand.New(opt.Seed)
	kindCycle := []texture.Kind{
		texture.SingleLine, texture.ImpliedPolyphony, texture.ScalePassage,
		texture.Arpeggiated, texture.Bariolage, texture.FullChords,
	}
	climaxCycles := 2

	for c := 0; c < numCycles; c++ {
		start := c * cycleLen
		isClimax := c >= numCycles-climaxCycles
		for v := 0; v < numUpper; v++ {
			low, high := voiceRange(v, numVoices)
			kind := kindCycle[(c+v)%len(kindCycle)]
			if isClimax && c == numCycles-1 {
				kind = texture.FullChords
			}
			ctx := texture.Context{
				TextureKind:   kind,
				Key:           opt.Key,
				StartTick:     start,
				DurationTicks: cycleLen,
				RegisterLow:   low,
				RegisterHigh:  high,
				IsClimax:      isClimax,
				RhythmProfile: texture.Sixteenth,
				VariationType: c,
				Seed:          uint32(outer.NewSub(uint32(c*numUpper+v)+1).Uint64()),
				Timeline:      tl,
			}
			notes := texture.Generate(ctx)
			notes = setVoiceAndSource(notes, v, tick.ArpeggioFlow)
			proposed = append(proposed, notes...)
		}
	}

	cfg := coordinate.Config{
		Key:                opt.Key,
		Scale:              scale,
		Timeline:           tl,
		NumVoices:          numVoices,
		VoiceRanges:        voiceRanges(numVoices),
		CrossRelationCheck: opt.CrossRel,
		SearchBudget:       5,
	}
	placed, diags := coordinate.Coordinate(proposed, cfg)
	placed = clampToWindow(placed, totalTicks)

	return Piece{
		Tracks:      splitByVoice(placed, numVoices),
		Timeline:    tl,
		Diagnostics: diags,
		TotalTicks:  totalTicks,
	}
}
