// Package vocabulary holds the static catalog of named melodic figures,
// rhythm cells, and voice profiles, plus figure-match scoring. Data tables
// are loaded once at init from an embedded YAML asset.
package vocabulary

import (
	"bachgen/pitch"
)

// Mode selects how a figure's intervals are interpreted.
type Mode int

const (
	Semitone Mode = iota
	DegreeMode
)

// DegreeInterval is a scale-degree-relative interval: signed degree
// difference (including octaves) plus a chroma offset (-1 flat, 0 natural,
// +1 sharp) relative to the diatonic scale.
type DegreeInterval struct {
	DegreeDiff   int
	ChromaOffset int
}

// Figure is a named melodic figure. Exactly one of SemitoneIntervals or
// DegreeIntervals is populated, selected by Mode.
type Figure struct {
	Name               string
	Mode               Mode
	AllowTransposition bool
	SemitoneIntervals  []int
	DegreeIntervals    []DegreeInterval
	CanonicalPitches   []int // a reference realization; the embedded catalog leaves it empty
	CanonicalKey       pitch.Key
	CanonicalScale     pitch.Scale
}

// RhythmCell is a named subdivision-of-one-beat pattern shared by several
// figures of equal duration.
type RhythmCell struct {
	Name          string
	DurationRatio []float64 // sums to 1.0 across one beat
}

// VoiceProfile names a target step/leap balance for a generated voice.
type VoiceProfile struct {
	Name          string
	StepRatio     float64
	LeapRatio     float64
}

// MatchFigure scores a pitch sequence against a figure, in [0,1].
func MatchFigure(pitches []int, f Figure, k pitch.Key, s pitch.Scale) float64 {
	expected := len(f.SemitoneIntervals)
	if f.Mode == DegreeMode {
		expected = len(f.DegreeIntervals)
	}
	if len(pitches) != expected+1 {
		return 0.0
	}
	switch f.Mode {
	case Semitone:
		return matchSemitone(pitches, f.SemitoneIntervals)
	default:
		return matchDegree(pitches, f.DegreeIntervals, k, s)
	}
}

func matchSemitone(pitches []int, intervals []int) float64 {
	if len(intervals) == 0 {
		return 0.0
	}
	total := 0.0
	for i, want := range intervals {
		got := pitches[i+1] - pitches[i]
		d := got - want
		if d < 0 {
			d = -d
		}
		switch {
		case d == 0:
			total += 1.0
		case d == 1:
			total += 0.3
		default:
			total += 0.0
		}
	}
	return total / float64(len(intervals))
}

func matchDegree(pitches []int, intervals []DegreeInterval, k pitch.Key, s pitch.Scale) float64 {
	if len(intervals) == 0 {
		return 0.0
	}
	total := 0.0
	for i, want := range intervals {
		gotSemitones := pitches[i+1] - pitches[i]
		degA := pitch.AbsoluteDegree(pitches[i], k, s)
		degB := pitch.AbsoluteDegree(pitches[i+1], k, s)
		gotDegreeDiff := degB - degA

		// octave-correct when the semitone direction disagrees with the raw
		// degree diff (e.g. an enharmonic wraparound at the octave seam).
		if (gotSemitones > 0) != (gotDegreeDiff > 0) && gotDegreeDiff != 0 && gotSemitones != 0 {
			if gotDegreeDiff > 0 {
				gotDegreeDiff -= 7
			} else {
				gotDegreeDiff += 7
			}
		}

		sameDir := sign(gotDegreeDiff) == sign(want.DegreeDiff) && want.DegreeDiff != 0
		diff := gotDegreeDiff - want.DegreeDiff
		if diff < 0 {
			diff = -diff
		}

		var score float64
		switch {
		case gotDegreeDiff == want.DegreeDiff:
			score = 1.0
			// chroma bonus
			gotChroma := chromaOffsetAt(pitches[i+1], k, s)
			if gotChroma == want.ChromaOffset {
				score += 0.1
				if score > 1.0 {
					score = 1.0
				}
			}
		case sameDir && diff == 1:
			score = 0.3
		case sameDir:
			score = 0.1
		default:
			score = 0.0
		}
		total += score
	}
	return total / float64(len(intervals))
}

func chromaOffsetAt(p int, k pitch.Key, s pitch.Scale) int {
	_, onScale := pitch.PitchToScaleDegree(p, k, s)
	if onScale {
		return 0
	}
	nearest := pitch.NearestScaleTone(p, k, s)
	if p > nearest {
		return 1
	}
	return -1
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

// FindBestFigure returns the index of the highest-scoring figure at or
// above threshold, or -1.
func FindBestFigure(pitches []int, table []Figure, k pitch.Key, s pitch.Scale, threshold float64) int {
	best := -1
	bestScore := threshold
	for i, f := range table {
		score := MatchFigure(pitches, f, k, s)
		if score >= bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}
