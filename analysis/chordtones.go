package analysis

import "bachgen/harmony"

var qualityIntervals = map[harmony.Quality][]int{
	harmony.MajorQ:           {0, 4, 7},
	harmony.MinorQ:           {0, 3, 7},
	harmony.DiminishedQ:      {0, 3, 6},
	harmony.AugmentedQ:       {0, 4, 8},
	harmony.Dominant7Q:       {0, 4, 7, 10},
	harmony.Minor7Q:          {0, 3, 7, 10},
	harmony.MajorMajor7Q:     {0, 4, 7, 11},
	harmony.Diminished7Q:     {0, 3, 6, 9},
	harmony.HalfDiminished7Q: {0, 3, 6, 10},
}

// chordTonePitchClasses returns the pitch classes (0-11) of a chord's
// tones, root first. Mirrors texture.chordTonePitchClasses: each package
// that needs chord-tone membership keeps its own small copy rather than
// sharing an exported helper across unrelated packages.
func chordTonePitchClasses(ch harmony.Chord) []int {
	intervals, ok := qualityIntervals[ch.Quality]
	if !ok {
		intervals = []int{0, 4, 7}
	}
	rootPC := ((ch.RootPitch % 12) + 12) % 12
	out := make([]int, len(intervals))
	for i, iv := range intervals {
		out[i] = (rootPC + iv) % 12
	}
	return out
}
