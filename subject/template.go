package subject

import "bachgen/tick"

// TemplateNote is one step of a motif template: a scale-degree offset from
// the template's local starting point, a duration in ticks, and a note
// function tag used only for readability/debugging.
type TemplateNote struct {
	DegreeOffset int
	Duration     int
	Function     string
}

// Template is an ordered list of template notes walked from a start point
// toward (A) or away from (B) the goal tone.
type Template struct {
	Notes []TemplateNote
}

// TemplatePair is a fixed A (ascend-to-goal) / B (descend-from-goal) pair.
type TemplatePair struct {
	A, B Template
}

// quarter and eighth are the two duration units the fixed templates are
// built from; sixteenth gives the more active Playful/Restless shapes.
const (
	quarter  = tick.Beat
	eighth   = tick.Beat / 2
	sixteen  = tick.Beat / 4
)

// buildPair constructs a template pair from degree-step "recipes": A steps
// are walked in order toward the goal tone, B steps away from it back
// toward the tonic. A positive step ascends, negative descends, 0 repeats.
func buildPair(aSteps []int, aDur int, aFuncs []string, bSteps []int, bDur int, bFuncs []string) TemplatePair {
	mk := func(steps []int, dur int, funcs []string) Template {
		notes := make([]TemplateNote, len(steps))
		for i, s := range steps {
			fn := "passing"
			if i < len(funcs) {
				fn = funcs[i]
			}
			notes[i] = TemplateNote{DegreeOffset: s, Duration: dur, Function: fn}
		}
		return Template{Notes: notes}
	}
	return TemplatePair{A: mk(aSteps, aDur, aFuncs), B: mk(bSteps, bDur, bFuncs)}
}

// templateTable holds the four fixed A/B template pairs for each character,
// built once at init from small step recipes. The shapes differ by
// character temperament: Severe
// favors stepwise motion and long values, Playful favors neighbor-tone
// decoration and short values, Noble favors wide steady ascents, Restless
// favors syncopated leaps.
var templateTable map[Character][4]TemplatePair

func init() {
	templateTable = map[Character][4]TemplatePair{
		Severe: {
			buildPair([]int{0, 1, 2, 3}, quarter, []string{"start", "passing", "passing", "approach"},
				[]int{0, -1, -2, -3}, quarter, []string{"goal", "passing", "passing", "arrival"}),
			buildPair([]int{0, 1, 1, 2}, quarter, nil,
				[]int{0, -2, -1, -2}, quarter, nil),
			buildPair([]int{0, 2, 1, 3}, eighth, nil,
				[]int{0, -1, -3, -2}, quarter, nil),
			buildPair([]int{0, 1, 2, 1, 3}, eighth, nil,
				[]int{0, -2, -4, -2}, quarter, nil),
		},
		Playful: {
			buildPair([]int{0, 2, 1, 3, 2}, sixteen, nil,
				[]int{0, -1, 1, -2}, sixteen, nil),
			buildPair([]int{0, 1, -1, 2, 1, 3}, sixteen, nil,
				[]int{0, -2, -1, -3}, sixteen, nil),
			buildPair([]int{0, 2, 3, 2, 4}, eighth, nil,
				[]int{0, 1, -1, -2, -4}, sixteen, nil),
			buildPair([]int{0, -1, 1, 2, 3}, sixteen, nil,
				[]int{0, -1, -3, -2, -4}, eighth, nil),
		},
		Noble: {
			buildPair([]int{0, 2, 4, 5}, quarter, []string{"start", "passing", "passing", "goal"},
				[]int{0, -2, -4, -5}, quarter, nil),
			buildPair([]int{0, 1, 3, 5}, quarter, nil,
				[]int{0, -1, -3, -5}, quarter, nil),
			buildPair([]int{0, 2, 3, 5}, quarter, nil,
				[]int{0, -2, -3, -5}, eighth, nil),
			buildPair([]int{0, 0, 2, 4, 5}, quarter, nil,
				[]int{0, -2, -4, -5}, quarter, nil),
		},
		Restless: {
			buildPair([]int{0, 3, 2, 4}, eighth, nil,
				[]int{0, -2, 1, -3, -1}, sixteen, nil),
			buildPair([]int{0, -2, 3, 1, 4}, sixteen, nil,
				[]int{0, 2, -1, -4}, eighth, nil),
			buildPair([]int{0, 2, -1, 4}, sixteen, nil,
				[]int{0, -3, 1, -2, -4}, sixteen, nil),
			buildPair([]int{0, 4, 2, 5}, eighth, nil,
				[]int{0, -1, -4, -2, -5}, sixteen, nil),
		},
	}
}

// TemplatesFor returns the four fixed template pairs for a character.
func TemplatesFor(c Character) [4]TemplatePair { return templateTable[c] }
