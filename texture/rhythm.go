// Package texture implements the per-voice figuration generators:
// single-line, implied-polyphony, full-chords, arpeggiated, scale-passage,
// and bariolage textures rendered over a harmonic timeline slice.
package texture

import "bachgen/tick"

// RhythmProfile names a fixed one-beat subdivision pattern. All
// subdivisions within a profile sum to exactly one beat.
type RhythmProfile int

const (
	QuarterNote RhythmProfile = iota
	EighthNote
	DottedEighth
	Triplet
	Sixteenth
	Mixed8th16th
)

// Subdivisions returns the ordered list of durations (ticks) one beat is
// split into under the given profile.
func Subdivisions(p RhythmProfile) []int {
	beat := tick.Beat
	switch p {
	case QuarterNote:
		return []int{beat}
	case EighthNote:
		return []int{beat / 2, beat / 2}
	case DottedEighth:
		return []int{beat * 3 / 4, beat / 4}
	case Triplet:
		third := beat / 3
		rem := beat - 2*third
		return []int{third, third, rem}
	case Sixteenth:
		q := beat / 4
		return []int{q, q, q, q}
	case Mixed8th16th:
		return []int{beat / 2, beat / 4, beat / 4}
	default:
		return []int{beat}
	}
}
