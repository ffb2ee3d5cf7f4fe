package subject

// Archetype is a structural strategy a subject is written against.
type Archetype int

const (
	Compact Archetype = iota
	Cantabile
	Invertible
	Chromatic
)

func (a Archetype) String() string {
	switch a {
	case Compact:
		return "Compact"
	case Cantabile:
		return "Cantabile"
	case Invertible:
		return "Invertible"
	case Chromatic:
		return "Chromatic"
	default:
		return "Unknown"
	}
}

// Policy is the fixed set of design constants gating and steering one
// archetype.
type Policy struct {
	Archetype               Archetype
	MinRangeSemis           int
	MaxRangeSemis           int
	MinLengthTicks          int
	MaxLengthTicks          int
	ClimaxPositionLow       float64
	ClimaxPositionHigh      float64
	DominantEndingProb      float64
	AnacrusisProbLow        float64
	AnacrusisProbHigh       float64
	FragmentReusabilityW    float64
	SequencePotentialW      float64
	SymmetryWeight          float64
	MaxStepRatioDeficit     float64 // how far step ratio may fall below target before penalty
	MaxConsecutiveChromatic int
	PathCandidates          int
	BaseQualityWeight       float64
	MinInvertibility        float64
	MinFragmentability      float64
	MinContourBalanceLow    float64 // lower bound of ascending fraction, e.g. 0.25
	MinContourBalanceHigh   float64 // upper bound, e.g. 0.75
	RequireFunctionalRes    bool    // chromatic steps must resolve stepwise
	RequireAxisStability    bool    // diatonic inversion must stay in playable range
}

// policyTable is the fixed design-constant table.
var policyTable = map[Archetype]Policy{
	Compact: {
		Archetype:               Compact,
		MinRangeSemis:           5,
		MaxRangeSemis:           12,
		MinLengthTicks:          960,
		MaxLengthTicks:          2880,
		ClimaxPositionLow:       0.3,
		ClimaxPositionHigh:      0.6,
		DominantEndingProb:      0.3,
		AnacrusisProbLow:        0.2,
		AnacrusisProbHigh:       0.5,
		FragmentReusabilityW:    0.6,
		SequencePotentialW:      0.3,
		SymmetryWeight:          0.3,
		MaxStepRatioDeficit:     0.3,
		MaxConsecutiveChromatic: 0,
		PathCandidates:          8,
		BaseQualityWeight:       1.0,
		MinInvertibility:        0.40,
		MinFragmentability:      0.40,
		MinContourBalanceLow:    0.25,
		MinContourBalanceHigh:   0.75,
		RequireFunctionalRes:    false,
		RequireAxisStability:    false,
	},
	Cantabile: {
		Archetype:               Cantabile,
		MinRangeSemis:           9,
		MaxRangeSemis:           19,
		MinLengthTicks:          1920,
		MaxLengthTicks:          4800,
		ClimaxPositionLow:       0.4,
		ClimaxPositionHigh:      0.75,
		DominantEndingProb:      0.5,
		AnacrusisProbLow:        0.2,
		AnacrusisProbHigh:       0.6,
		FragmentReusabilityW:    0.4,
		SequencePotentialW:      0.5,
		SymmetryWeight:          0.2,
		MaxStepRatioDeficit:     0.2,
		MaxConsecutiveChromatic: 1,
		PathCandidates:          10,
		BaseQualityWeight:       1.0,
		MinInvertibility:        0.40,
		MinFragmentability:      0.40,
		MinContourBalanceLow:    0.25,
		MinContourBalanceHigh:   0.75,
		RequireFunctionalRes:    false,
		RequireAxisStability:    false,
	},
	Invertible: {
		Archetype:               Invertible,
		MinRangeSemis:           7,
		MaxRangeSemis:           15,
		MinLengthTicks:          1440,
		MaxLengthTicks:          3840,
		ClimaxPositionLow:       0.25,
		ClimaxPositionHigh:      0.55,
		DominantEndingProb:      0.4,
		AnacrusisProbLow:        0.2,
		AnacrusisProbHigh:       0.5,
		FragmentReusabilityW:    0.5,
		SequencePotentialW:      0.4,
		SymmetryWeight:          0.5,
		MaxStepRatioDeficit:     0.25,
		MaxConsecutiveChromatic: 0,
		PathCandidates:          12,
		BaseQualityWeight:       1.05,
		MinInvertibility:        0.55,
		MinFragmentability:      0.40,
		MinContourBalanceLow:    0.3,
		MinContourBalanceHigh:   0.7,
		RequireFunctionalRes:    false,
		RequireAxisStability:    true,
	},
	Chromatic: {
		Archetype:               Chromatic,
		MinRangeSemis:           7,
		MaxRangeSemis:           17,
		MinLengthTicks:          1440,
		MaxLengthTicks:          4320,
		ClimaxPositionLow:       0.35,
		ClimaxPositionHigh:      0.65,
		DominantEndingProb:      0.4,
		AnacrusisProbLow:        0.25,
		AnacrusisProbHigh:       0.6,
		FragmentReusabilityW:    0.45,
		SequencePotentialW:      0.45,
		SymmetryWeight:          0.25,
		MaxStepRatioDeficit:     0.3,
		MaxConsecutiveChromatic: 3,
		PathCandidates:          10,
		BaseQualityWeight:       0.95,
		MinInvertibility:        0.35,
		MinFragmentability:      0.45,
		MinContourBalanceLow:    0.25,
		MinContourBalanceHigh:   0.75,
		RequireFunctionalRes:    true,
		RequireAxisStability:    false,
	},
}

// PolicyFor picks an archetype policy from (form, character). Fugue favors
// Invertible (stretto/stretto-adjacent demands); Chaconne favors Compact
// (short, repeatable ground-friendly units); Goldberg favors Cantabile;
// a Restless character in a Fugue takes Chromatic instead. Other
// characters do not change the choice.
func PolicyFor(form string, c Character) Policy {
	switch form {
	case "Fugue":
		if c == Restless {
			return policyTable[Chromatic]
		}
		return policyTable[Invertible]
	case "Chaconne":
		return policyTable[Compact]
	case "Goldberg":
		return policyTable[Cantabile]
	default:
		return policyTable[Compact]
	}
}

// ClampLeap clamps a character's configured max leap into the policy's
// range window, expressed in semitones.
func ClampLeap(p Policy, maxLeap int) int {
	if maxLeap > p.MaxRangeSemis {
		return p.MaxRangeSemis
	}
	return maxLeap
}
