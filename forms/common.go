// Package forms assembles the core subsystems (harmony, subject, vertical,
// coordinate, texture) into complete per-form pieces: Fugue, Goldberg, and
// Chaconne.
package forms

import (
	"bachgen/coordinate"
	"bachgen/harmony"
	"bachgen/pitch"
	"bachgen/tick"
)

// Piece is a fully coordinated, ready-to-serialize multi-voice piece.
type Piece struct {
	Tracks      []tick.Track
	Timeline    *harmony.Timeline
	Diagnostics []coordinate.Diagnostic
	TotalTicks  int
}

// voiceRange returns a plausible keyboard register for voice index v out of
// numVoices, under the convention that a higher VoiceID is a lower voice
// (voice 0 = soprano/top, voice numVoices-1 = bass/bottom; see DESIGN.md).
func voiceRange(v, numVoices int) (low, high int) {
	top := 84 // C6
	bottom := 36 // C2
	span := top - bottom
	band := span / numVoices
	high = top - v*band
	low = high - band
	if low < bottom {
		low = bottom
	}
	return low, high
}

func voiceRanges(numVoices int) map[int]coordinate.VoiceRange {
	out := make(map[int]coordinate.VoiceRange, numVoices)
	for v := 0; v < numVoices; v++ {
		lo, hi := voiceRange(v, numVoices)
		out[v] = coordinate.VoiceRange{Low: lo, High: hi}
	}
	return out
}

func shiftNotes(notes []tick.Note, offset int) []tick.Note {
	out := make([]tick.Note, len(notes))
	for i, n := range notes {
		n.StartTick += offset
		out[i] = n
	}
	return out
}

func setVoiceAndSource(notes []tick.Note, voice int, src tick.Source) []tick.Note {
	for i := range notes {
		notes[i].VoiceID = voice
		notes[i].Source = src
	}
	return notes
}

// transposeDiatonic shifts every note by a fixed number of diatonic scale
// steps, folding the result back an octave if the transposition pushed the
// opening pitch more than an octave away from the original.
func transposeDiatonic(notes []tick.Note, steps int, k pitch.Key, s pitch.Scale) []tick.Note {
	if len(notes) == 0 {
		return nil
	}
	firstTarget := pitch.AbsoluteDegreeToPitch(pitch.AbsoluteDegree(notes[0].Pitch, k, s)+steps, k, s)
	octaveFold := 0
	if d := firstTarget - notes[0].Pitch; d > 12 {
		octaveFold = -12
	} else if d < -12 {
		octaveFold = 12
	}
	out := make([]tick.Note, len(notes))
	for i, n := range notes {
		deg := pitch.AbsoluteDegree(n.Pitch, k, s) + steps
		p := pitch.AbsoluteDegreeToPitch(deg, k, s) + octaveFold
		out[i] = n
		out[i].Pitch = pitch.ClampPitch(p, 0, 127)
	}
	return out
}

// tonalAnswer transposes a subject's notes up a diatonic fifth, the
// classic tonal-answer interval.
func tonalAnswer(notes []tick.Note, k pitch.Key, s pitch.Scale) []tick.Note {
	return transposeDiatonic(notes, 4, k, s) // a fifth = 4 diatonic steps up
}

func splitByVoice(notes []tick.Note, numVoices int) []tick.Track {
	tracks := make([]tick.Track, numVoices)
	for v := 0; v < numVoices; v++ {
		tracks[v].VoiceID = v
	}
	for _, n := range notes {
		if n.VoiceID >= 0 && n.VoiceID < numVoices {
			tracks[n.VoiceID].Notes = append(tracks[n.VoiceID].Notes, n)
		}
	}
	return tracks
}

// clampToWindow drops notes starting at or after endTick and shortens any
// note still sounding there, so a piece never rings past its final bar
// line.
func clampToWindow(notes []tick.Note, endTick int) []tick.Note {
	var out []tick.Note
	for _, n := range notes {
		if n.StartTick >= endTick {
			continue
		}
		if n.EndTick() > endTick {
			n.Duration = endTick - n.StartTick
		}
		if n.Duration <= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

// pieceTotalTicks is the round-up to a whole bar count every assembled
// scenario requires (total_duration_ticks % bar_ticks == 0).
func pieceTotalTicks(targetBars int, ts tick.TimeSig) int {
	if targetBars <= 0 {
		targetBars = 8
	}
	return targetBars * tick.PerBar(ts)
}
