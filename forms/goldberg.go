package forms

import (
	"bachgen/bachrand"
	"bachgen/coordinate"
	"bachgen/harmony"
	"bachgen/pitch"
	"bachgen/subject"
	"bachgen/texture"
	"bachgen/tick"
)

// GoldbergOptions configures one aria-plus-variations assembly.
type GoldbergOptions struct {
	Key              pitch.Key
	Character        subject.Character
	NumVariations    int // aria (variation 0) plus N-1 further variations
	BarsPerVariation int
	Seed             uint32
	CrossRel         bool
}

const goldbergNumVoices = 3 // two upper voices over a repeating bass ground

// AssembleGoldberg builds a ground bass repeated unchanged across every
// variation, with every third variation (after the aria) cast as a canon
// at a widening diatonic interval and the remaining variations filled with
// rotating figuration textures.
func AssembleGoldberg(opt GoldbergOptions) Piece {
	numVar := opt.NumVariations
	if numVar <= 0 {
		numVar = 8
	}
	barsPerVar := opt.BarsPerVariation
	if barsPerVar <= 0 {
		barsPerVar = 4
	}
	scale := pitch.DefaultScale(opt.Key)
	variationLen := barsPerVar * tick.PerBar(tick.FourFour)
	totalTicks := variationLen * numVar

	groundTL := harmony.CreateProgression(opt.Key, variationLen, harmony.DescendingFifths, harmony.Section)
	groundEvents := groundTL.Events()

	tl := &harmony.Timeline{}
	for v := 0; v < numVar; v++ {
		offset := v * variationLen
		for _, e := range groundEvents {
			e.Tick += offset
			e.EndTick += offset
			tl.Append(e)
		}
	}
	harmony.ApplyCadence(tl, opt.Key, harmony.Perfect)

	outer := bachrand.New(opt.Seed)
	bassVoice := goldbergNumVoices - 1

	var proposed []tick.Note
	for _, e := range tl.Events() {
		proposed = append(proposed, tick.Note{
			StartTick: e.Tick,
			Duration:  e.EndTick - e.Tick,
			Pitch:     e.BassPitch,
			Velocity:  66,
			VoiceID:   bassVoice,
			Source:    tick.CantusFixed,
		})
	}

	for v := 0; v < numVar; v++ {
		start := v * variationLen
		if v%3 == 2 {
			canonInterval := v/3 + 1 // widens every third variation
			lead := subject.Generate(subject.Options{
				Key:        opt.Key,
				Character:  opt.Character,
				Form:       "Goldberg",
				TotalTicks: variationLen,
				Seed:       uint32(outer.NewSub(uint32(v) + 1).Uint64()),
				VoiceID:    0,
			})
			companion := transposeDiatonic(lead.Notes, canonInterval, opt.Key, scale)
			delay := tick.Beat * 2
			leadNotes := shiftNotes(lead.Notes, start-entryOriginTick(lead.Notes))
			companionNotes := shiftNotes(companion, start+delay-entryOriginTick(companion))
			leadNotes = setVoiceAndSource(leadNotes, 0, tick.GoldbergSoggetto)
			companionNotes = setVoiceAndSource(companionNotes, 1, tick.GoldbergSoggetto)
			proposed = append(proposed, leadNotes...)
			proposed = append(proposed, companionNotes...)
			continue
		}

		kinds := []texture.Kind{texture.Arpeggiated, texture.ScalePassage, texture.ImpliedPolyphony}
		for voiceIdx := 0; voiceIdx < goldbergNumVoices-1; voiceIdx++ {
			low, high := voiceRange(voiceIdx, goldbergNumVoices)
			ctx := texture.Context{
				TextureKind:   kinds[(v+voiceIdx)%len(kinds)],
				Key:           opt.Key,
				StartTick:     start,
				DurationTicks: variationLen,
				RegisterLow:   low,
				RegisterHigh:  high,
				RhythmProfile: texture.Sixteenth,
				VariationType: v,
				Seed:          uint32(outer.NewSub(uint32(100+v*goldbergNumVoices+voiceIdx)).Uint64()),
				Timeline:      tl,
			}
			notes := texture.Generate(ctx)
			notes = setVoiceAndSource(notes, voiceIdx, tick.ArpeggioFlow)
			proposed = append(proposed, notes...)
		}
	}

	cfg := coordinate.Config{
		Key:                opt.Key,
		Scale:              scale,
		Timeline:           tl,
		NumVoices:          goldbergNumVoices,
		VoiceRanges:        voiceRanges(goldbergNumVoices),
		CrossRelationCheck: opt.CrossRel,
		SearchBudget:       5,
	}
	placed, diags := coordinate.Coordinate(proposed, cfg)
	placed = clampToWindow(placed, totalTicks)

	return Piece{
		Tracks:      splitByVoice(placed, goldbergNumVoices),
		Timeline:    tl,
		Diagnostics: diags,
		TotalTicks:  totalTicks,
	}
}
