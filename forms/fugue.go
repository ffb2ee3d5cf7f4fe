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

// FugueOptions configures one fugue assembly.
type FugueOptions struct {
	Key        pitch.Key
	Character  subject.Character
	NumVoices  int // 3 or 4
	TargetBars int
	Seed       uint32
	CrossRel   bool
}

// AssembleFugue builds a complete fugue: exposition (subject, tonal answer,
// and successive entries in the remaining voices), episodes of free
// material between entries, and a closing stretto-style re-entry group
// before the final cadence.
func AssembleFugue(opt FugueOptions) Piece {
	numVoices := opt.NumVoices
	if numVoices < 3 {
		numVoices = 3
	}
	if numVoices > 4 {
		numVoices = 4
	}
	totalTicks := pieceTotalTicks(opt.TargetBars, tick.FourFour)
	scale := pitch.DefaultScale(opt.Key)

	tl := harmony.CreateProgression(opt.Key, totalTicks, harmony.CircleOfFifths, harmony.Bar)
	harmony.ApplyCadence(tl, opt.Key, harmony.Perfect)

	outer := bachrand.New(opt.Seed)

	subjectLen := totalTicks / (numVoices * 3)
	if subjectLen < tick.PerBar(tick.FourFour) {
		subjectLen = tick.PerBar(tick.FourFour)
	}

	primary := subject.Generate(subject.Options{
		Key:        opt.Key,
		Character:  opt.Character,
		Form:       "Fugue",
		TotalTicks: subjectLen,
		Seed:       uint32(outer.NewSub(1).Uint64()),
		VoiceID:    0,
	})

	var proposed []tick.Note
	entryTick := 0

	// exposition: alternating subject/tonal-answer entries, one per voice
	for v := 0; v < numVoices; v++ {
		var entry []tick.Note
		if v%2 == 0 {
			entry = append(entry, primary.Notes...)
		} else {
			entry = tonalAnswer(primary.Notes, opt.Key, scale)
		}
		entry = shiftNotes(entry, entryTick-entryOriginTick(entry))
		src := tick.FugueSubject
		if v%2 == 1 {
			src = tick.FugueAnswer
		}
		entry = setVoiceAndSource(entry, v, src)
		proposed = append(proposed, entry...)
		entryTick += subjectLen / 2
	}

	expositionEnd := entryTick + subjectLen
	episodeStart := expositionEnd
	finalEntryStart := totalTicks - subjectLen
	if finalEntryStart < episodeStart {
		finalEntryStart = episodeStart
	}

	// episodes: free material filling every voice between the exposition
	// and the closing entries
	if finalEntryStart > episodeStart {
		for v := 0; v < numVoices; v++ {
			low, high := voiceRange(v, numVoices)
			ctx := texture.Context{
				TextureKind:   texture.ScalePassage,
				Key:           opt.Key,
				StartTick:     episodeStart,
				DurationTicks: finalEntryStart - episodeStart,
				RegisterLow:   low,
				RegisterHigh:  high,
				RhythmProfile: texture.EighthNote,
				Seed:          uint32(outer.NewSub(uint32(10 + v)).Uint64()),
				VariationType: v,
				Timeline:      tl,
			}
			episode := texture.Generate(ctx)
			episode = setVoiceAndSource(episode, v, tick.EpisodeMaterial)
			proposed = append(proposed, episode...)
		}
	}

	// closing stretto-style group: every voice re-enters with the subject
	// (or its tonal answer) in close succession before the cadence
	strettoOffset := subjectLen / 4
	for v := 0; v < numVoices; v++ {
		var entry []tick.Note
		if v%2 == 0 {
			entry = append(entry, primary.Notes...)
		} else {
			entry = tonalAnswer(primary.Notes, opt.Key, scale)
		}
		start := finalEntryStart + v*strettoOffset
		if start+subjectLen > totalTicks {
			start = totalTicks - subjectLen
		}
		entry = shiftNotes(entry, start-entryOriginTick(entry))
		src := tick.FugueSubject
		if v%2 == 1 {
			src = tick.FugueAnswer
		}
		entry = setVoiceAndSource(entry, v, src)
		proposed = append(proposed, entry...)
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

// entryOriginTick is the earliest StartTick among a subject entry's notes
// (an anacrusis note, if present, starts before tick 0).
func entryOriginTick(notes []tick.Note) int {
	if len(notes) == 0 {
		return 0
	}
	min := notes[0].StartTick
	for _, n := range notes[1:] {
		if n.StartTick < min {
			min = n.StartTick
		}
	}
	return min
}
