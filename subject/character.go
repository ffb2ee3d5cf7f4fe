// Package subject implements the constraint-driven subject/voice
// generator: motif templates plus goal-tone sampling produce N candidate
// melodic paths, gated and scored by archetype + character policy.
package subject

import "bachgen/tick"

// Character is one of the four fixed subject temperaments.
type Character int

const (
	Severe Character = iota
	Playful
	Noble
	Restless
)

// CharacterParams holds the per-character tuning: goal-tone placement,
// anacrusis behavior, and leap tolerance.
type CharacterParams struct {
	PositionRatio     float64 // default goal-tone position, fraction of total_ticks
	PitchRatio        float64 // default goal-tone height within the register window
	AnacrusisProb     float64
	AnacrusisBeats    int // 1 normally, 2 for Playful/Restless
	AllowOneWideLeap  bool
	MaxLeapSemis      int
	DurationWeights   map[int]float64 // ticks -> relative weight, character's duration table
}

// characterTable is the fixed design-constant table.
var characterTable = map[Character]CharacterParams{
	Severe: {
		PositionRatio:    0.5,
		PitchRatio:       0.8,
		AnacrusisProb:    0.30,
		AnacrusisBeats:   1,
		AllowOneWideLeap: false,
		MaxLeapSemis:     7,
		DurationWeights:  map[int]float64{tick.Beat: 0.55, tick.Beat / 2: 0.35, tick.Beat / 4: 0.10},
	},
	Playful: {
		PositionRatio:    0.35,
		PitchRatio:       0.9,
		AnacrusisProb:    0.70,
		AnacrusisBeats:   2,
		AllowOneWideLeap: true,
		MaxLeapSemis:     9,
		DurationWeights:  map[int]float64{tick.Beat / 2: 0.45, tick.Beat / 4: 0.45, tick.Beat: 0.10},
	},
	Noble: {
		PositionRatio:    0.25,
		PitchRatio:       0.95,
		AnacrusisProb:    0.40,
		AnacrusisBeats:   1,
		AllowOneWideLeap: false,
		MaxLeapSemis:     7,
		DurationWeights:  map[int]float64{tick.Beat: 0.65, tick.Beat / 2: 0.25, tick.Beat * 2: 0.10},
	},
	Restless: {
		PositionRatio:    0.6,
		PitchRatio:       0.85,
		AnacrusisProb:    0.60,
		AnacrusisBeats:   2,
		AllowOneWideLeap: true,
		MaxLeapSemis:     9,
		DurationWeights:  map[int]float64{tick.Beat / 4: 0.55, tick.Beat / 2: 0.30, tick.Beat: 0.15},
	},
}

// ParamsFor returns the fixed design parameters for a character.
func ParamsFor(c Character) CharacterParams { return characterTable[c] }

func (c Character) String() string {
	switch c {
	case Severe:
		return "Severe"
	case Playful:
		return "Playful"
	case Noble:
		return "Noble"
	case Restless:
		return "Restless"
	default:
		return "Unknown"
	}
}
