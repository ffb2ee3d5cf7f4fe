package subject

import (
	"bachgen/bachrand"
	"bachgen/harmony"
	"bachgen/obligation"
	"bachgen/pitch"
	"bachgen/tick"
)

// Grid carries the bar-level harmonic anchors and cadence target a
// secondary-voice generation pass aligns against.
type Grid struct {
	Timeline        *harmony.Timeline
	CadenceTargetPC int
	IntensifyBars   map[int]bool // bar index -> should ascend
	CadenceBars     map[int]bool // bar index -> should descend toward target
}

// Options configures one subject-generation run.
type Options struct {
	Key        pitch.Key
	Character  Character
	Form       string
	TotalTicks int
	Seed       uint32
	VoiceID    int
	Grid       *Grid // nil for a primary (fugue subject) generation
}

const sixteenthTick = tick.Beat / 4

// Generate runs the full candidate-enumerate-and-select pipeline and
// returns the chosen Subject.
func Generate(opt Options) Subject {
	policy := PolicyFor(opt.Form, opt.Character)
	params := ParamsFor(opt.Character)
	maxLeap := ClampLeap(policy, params.MaxLeapSemis)
	params.PositionRatio = clampF(params.PositionRatio, policy.ClimaxPositionLow, policy.ClimaxPositionHigh)
	params.AnacrusisProb = clampF(params.AnacrusisProb, policy.AnacrusisProbLow, policy.AnacrusisProbHigh)
	scale := pitch.DefaultScale(opt.Key)

	totalTicks := opt.TotalTicks
	if totalTicks < policy.MinLengthTicks {
		totalTicks = policy.MinLengthTicks
	}
	if totalTicks > policy.MaxLengthTicks {
		totalTicks = policy.MaxLengthTicks
	}

	outer := bachrand.New(opt.Seed)

	goalTick := goalTonePosition(params, opt.Character, totalTicks, outer)
	climaxPitch := goalTonePitch(params, opt.Key, scale, policy, outer)
	templateIdx := outer.Intn(4)
	pair := TemplatesFor(opt.Character)[templateIdx]

	var best candidateNotes
	var bestScore Score
	var bestRaw candidateNotes
	var bestRawScore Score
	haveBest := false
	haveRaw := false

	for i := 0; i < policy.PathCandidates; i++ {
		sub := outer.NewSub(uint32(i) + 1)
		cand := buildCandidate(pair, opt.Key, scale, maxLeap, goalTick, climaxPitch, totalTicks, policy, sub)
		cand = postProcess(cand, maxLeap, opt.Key, scale)
		cand, _ = applyAnacrusis(cand, params, sub)

		sc := scoreCandidate(cand, opt.Key, scale, policy, opt.Grid, params.AllowOneWideLeap)
		passes := hardGate(sc, policy)

		if !haveRaw || sc.Composite > bestRawScore.Composite {
			bestRaw = cand
			bestRawScore = sc
			bestRawScore.PassesGate = passes
			haveRaw = true
		}
		if passes && (!haveBest || sc.Composite > bestScore.Composite) {
			best = cand
			bestScore = sc
			bestScore.PassesGate = true
			haveBest = true
		}
	}

	if haveBest {
		assignVoice(best, opt.VoiceID)
		return Subject{
			Key:            opt.Key,
			Character:      opt.Character,
			Notes:          best,
			LengthTicks:    subjectLength(best),
			AnacrusisTicks: anacrusisTicksOf(best),
			Degraded:       false,
			Score:          bestScore,
		}
	}
	assignVoice(bestRaw, opt.VoiceID)
	return Subject{
		Key:            opt.Key,
		Character:      opt.Character,
		Notes:          bestRaw,
		LengthTicks:    subjectLength(bestRaw),
		AnacrusisTicks: anacrusisTicksOf(bestRaw),
		Degraded:       true,
		Score:          bestRawScore,
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func assignVoice(notes candidateNotes, voiceID int) {
	for i := range notes {
		notes[i].VoiceID = voiceID
	}
}

func anacrusisTicksOf(notes candidateNotes) int {
	for _, n := range notes {
		if n.StartTick < 0 {
			return -n.StartTick
		}
	}
	return 0
}

func subjectLength(notes candidateNotes) int {
	if len(notes) == 0 {
		return 0
	}
	return notes[len(notes)-1].EndTick()
}

// goalTonePosition quantizes the position ratio times total ticks to the
// nearest strong beat, with small RNG jitter; Noble always lands on beat 1.
func goalTonePosition(params CharacterParams, c Character, totalTicks int, rng *bachrand.Source) int {
	if c == Noble {
		return 0
	}
	raw := float64(totalTicks) * params.PositionRatio
	jitter := rng.JitterInt(0, tick.Beat/2)
	raw += float64(jitter)
	strongStep := 2 * tick.Beat
	snapped := (int(raw) + strongStep/2) / strongStep * strongStep
	if snapped < 0 {
		snapped = 0
	}
	if snapped > totalTicks {
		snapped = totalTicks
	}
	return snapped
}

// goalTonePitch interpolates the climax pitch within the policy's register
// cap, anchored an octave above C4 as the generator's default register.
func goalTonePitch(params CharacterParams, k pitch.Key, s pitch.Scale, p Policy, rng *bachrand.Source) int {
	base := 72 // C5, a generic soprano register anchor
	spread := int(float64(p.MaxRangeSemis) * params.PitchRatio)
	pitchVal := base - p.MaxRangeSemis + spread
	pitchVal += rng.JitterInt(0, 1)
	return pitch.NearestScaleTone(pitchVal, k, s)
}

// buildCandidate walks template A toward the goal tone, inserts the goal
// tone, walks template B toward the tonic, then fills any remaining time.
func buildCandidate(pair TemplatePair, k pitch.Key, s pitch.Scale, maxLeap, goalTick, climaxPitch, totalTicks int, policy Policy, rng *bachrand.Source) candidateNotes {
	var notes candidateNotes
	tonicPitch := pitch.NearestScaleTone(60, k, s)

	cur := tonicPitch
	curTick := 0
	walk := func(tmpl Template, target int, endTick int, dominantEnd bool) {
		n := len(tmpl.Notes)
		if n == 0 {
			return
		}
		for i, step := range tmpl.Notes {
			frac := float64(i+1) / float64(n)
			interp := cur + int(float64(target-cur)*frac)
			want := interp + step.DegreeOffset
			if rng.Bool(0.40) {
				want += rng.Sign()
			}
			snapped := pitch.NearestScaleTone(want, k, s)
			leap := snapped - cur
			if leap > maxLeap {
				snapped = pitch.NearestScaleTone(cur+maxLeap, k, s)
			} else if leap < -maxLeap {
				snapped = pitch.NearestScaleTone(cur-maxLeap, k, s)
			}
			if snapped == cur {
				// avoid exact unison with the previous note
				if step.DegreeOffset >= 0 {
					snapped = pitch.NearestScaleTone(cur+1, k, s)
				} else {
					snapped = pitch.NearestScaleTone(cur-1, k, s)
				}
			}
			dur := step.Duration
			if curTick+dur > endTick {
				dur = endTick - curTick
				if dur < sixteenthTick {
					dur = sixteenthTick
				}
			}
			notes = append(notes, tick.Note{
				StartTick: curTick,
				Duration:  dur,
				Pitch:     pitch.ClampPitch(snapped, 0, 127),
				Velocity:  72,
				VoiceID:   0,
				Source:    tick.FugueSubject,
			})
			cur = snapped
			curTick += dur
			if curTick >= endTick {
				break
			}
		}
	}

	walk(pair.A, climaxPitch, goalTick, false)

	// insert the goal-tone note itself
	if curTick < goalTick {
		curTick = goalTick
	}
	goalDur := tick.Beat
	if curTick+goalDur > totalTicks {
		goalDur = totalTicks - curTick
	}
	if goalDur < sixteenthTick {
		goalDur = sixteenthTick
	}
	notes = append(notes, tick.Note{
		StartTick: curTick,
		Duration:  goalDur,
		Pitch:     pitch.ClampPitch(climaxPitch, 0, 127),
		Velocity:  80,
		VoiceID:   0,
		Source:    tick.FugueSubject,
	})
	cur = climaxPitch
	curTick += goalDur

	dominantEnd := rng.Bool(policy.DominantEndingProb)
	endTarget := tonicPitch
	if dominantEnd {
		endTarget = pitch.NearestScaleTone(tonicPitch+7, k, s)
	}
	walk(pair.B, endTarget, totalTicks, dominantEnd)

	// fill any remaining time with template-A rhythm, stepping toward tonic
	if curTick < totalTicks && len(pair.A.Notes) > 0 {
		i := 0
		for curTick < totalTicks {
			step := pair.A.Notes[i%len(pair.A.Notes)]
			dir := -1
			if cur < tonicPitch {
				dir = 1
			}
			want := pitch.NearestScaleTone(cur+dir, k, s)
			dur := step.Duration
			if curTick+dur > totalTicks {
				dur = totalTicks - curTick
			}
			if dur < sixteenthTick {
				break
			}
			notes = append(notes, tick.Note{
				StartTick: curTick,
				Duration:  dur,
				Pitch:     pitch.ClampPitch(want, 0, 127),
				Velocity:  68,
				VoiceID:   0,
				Source:    tick.FugueSubject,
			})
			cur = want
			curTick += dur
			i++
		}
	}

	return notes
}

// postProcess quantizes starts to the 16th-note grid, resolves overlaps by
// shortening predecessors, and enforces the leap limit a second time.
func postProcess(notes candidateNotes, maxLeap int, k pitch.Key, s pitch.Scale) candidateNotes {
	out := make(candidateNotes, len(notes))
	copy(out, notes)
	for i := range out {
		q := (out[i].StartTick / sixteenthTick) * sixteenthTick
		out[i].StartTick = q
	}
	for i := 0; i < len(out)-1; i++ {
		if out[i].EndTick() > out[i+1].StartTick {
			newDur := out[i+1].StartTick - out[i].StartTick
			if newDur < sixteenthTick {
				newDur = sixteenthTick
			}
			out[i].Duration = newDur
		}
	}
	for i := 1; i < len(out); i++ {
		leap := out[i].Pitch - out[i-1].Pitch
		abs := leap
		if abs < 0 {
			abs = -abs
		}
		if abs > maxLeap {
			dist := maxLeap
			for dist > 0 {
				var candidate int
				if leap > 0 {
					candidate = out[i-1].Pitch + dist
				} else {
					candidate = out[i-1].Pitch - dist
				}
				snapped := pitch.NearestScaleTone(candidate, k, s)
				if abs2(snapped-out[i-1].Pitch) <= maxLeap {
					out[i].Pitch = pitch.ClampPitch(snapped, 0, 127)
					break
				}
				dist--
			}
		}
	}
	return out
}

func abs2(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// applyAnacrusis shifts the first note to start before tick 0 by splitting
// it into an anacrusis fragment plus a tick-0 remainder.
func applyAnacrusis(notes candidateNotes, params CharacterParams, rng *bachrand.Source) (candidateNotes, int) {
	if len(notes) == 0 || !rng.Bool(params.AnacrusisProb) {
		return notes, 0
	}
	shiftTicks := params.AnacrusisBeats * tick.Beat
	first := notes[0]
	if first.Duration <= sixteenthTick {
		return notes, 0
	}
	anacrusisDur := first.Duration / 2
	if anacrusisDur < sixteenthTick {
		anacrusisDur = sixteenthTick
	}
	remainderDur := first.Duration - anacrusisDur
	out := make(candidateNotes, 0, len(notes)+1)
	out = append(out, tick.Note{
		StartTick: -shiftTicks,
		Duration:  anacrusisDur,
		Pitch:     first.Pitch,
		Velocity:  first.Velocity,
		VoiceID:   first.VoiceID,
		Source:    first.Source,
	})
	out = append(out, tick.Note{
		StartTick: 0,
		Duration:  remainderDur,
		Pitch:     first.Pitch,
		Velocity:  first.Velocity,
		VoiceID:   first.VoiceID,
		Source:    first.Source,
	})
	out = append(out, notes[1:]...)
	return out, shiftTicks
}

func scoreCandidate(notes candidateNotes, k pitch.Key, s pitch.Scale, policy Policy, grid *Grid, allowOneWideLeap bool) Score {
	prof := obligation.Analyze(notes, k, allowOneWideLeap)
	half := subjectLength(notes) / 2

	fitness := archetypeFitness(notes, policy, k, s)
	inv := inversionQuality(notes, k, s)
	str := strettoPotential(prof, half)
	kop := kopfmotivStrength(notes, policy, k, s)

	var sc Score
	sc.ArchetypeFitness = fitness
	sc.InversionQuality = inv
	sc.StrettoPotential = str
	sc.KopfmotivStrength = kop
	sc.Invertibility = inv
	sc.Fragmentability = kop
	sc.AscendingFraction = ascendingFraction(notes)
	sc.UnresolvedChromatic = unresolvedChromaticSteps(notes)
	sc.AxisStable = axisStable(notes, k, s)

	if grid != nil {
		ga := gridAlignment(notes, *grid)
		sc.GridAlignment = ga
		sc.Composite = composite(fitness, inv, str, kop, ga, true)
	} else {
		sc.Composite = composite(fitness, inv, str, kop, 0, false)
	}
	sc.Composite = clamp01(sc.Composite * policy.BaseQualityWeight)
	return sc
}

func ascendingFraction(notes candidateNotes) float64 {
	asc, total := 0, 0
	for i := 1; i < len(notes); i++ {
		d := notes[i].Pitch - notes[i-1].Pitch
		if d == 0 {
			continue
		}
		total++
		if d > 0 {
			asc++
		}
	}
	if total == 0 {
		return 0.5
	}
	return float64(asc) / float64(total)
}

// gridAlignment rewards chord-tone presence on the bar, ascending motion
// during intensification bars, descending motion at cadence bars, and a
// matching cadence-target pitch class at the final bar.
func gridAlignment(notes candidateNotes, grid Grid) float64 {
	if grid.Timeline == nil || len(notes) == 0 {
		return 0.5
	}
	barLen := tick.PerBar(tick.FourFour)
	score, weight := 0.0, 0.0
	for _, n := range notes {
		bar := n.StartTick / barLen
		ev := grid.Timeline.GetAt(n.StartTick)
		chordTones := []int{ev.Chord.RootPitch % 12}
		weight += 1.0
		if contains(chordTones, n.Pitch%12) {
			score += 1.0
		}
		if grid.IntensifyBars != nil && grid.IntensifyBars[bar] {
			weight += 0.5
		}
	}
	motionBonus := 0.0
	if grid.IntensifyBars != nil {
		for i := 1; i < len(notes); i++ {
			bar := notes[i].StartTick / barLen
			if grid.IntensifyBars[bar] && notes[i].Pitch > notes[i-1].Pitch {
				motionBonus += 1.0
			}
			if grid.CadenceBars != nil && grid.CadenceBars[bar] && notes[i].Pitch < notes[i-1].Pitch {
				motionBonus += 1.0
			}
		}
	}
	last := notes[len(notes)-1]
	targetBonus := 0.0
	if last.Pitch%12 == ((grid.CadenceTargetPC%12)+12)%12 {
		targetBonus = 1.0
	}
	base := 0.5
	if weight > 0 {
		base = score / weight
	}
	return clamp01(0.6*base + 0.2*clamp01(motionBonus/4) + 0.2*targetBonus)
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// hardGate rejects candidates failing the policy-required conditions:
// invertibility, fragmentability, contour symmetry, functional resolution
// of chromatic steps, and inversion-axis stability.
func hardGate(sc Score, policy Policy) bool {
	if sc.Invertibility < policy.MinInvertibility {
		return false
	}
	if sc.Fragmentability < policy.MinFragmentability {
		return false
	}
	if sc.AscendingFraction < policy.MinContourBalanceLow || sc.AscendingFraction > policy.MinContourBalanceHigh {
		return false
	}
	if policy.RequireFunctionalRes && sc.UnresolvedChromatic > policy.MaxConsecutiveChromatic {
		return false
	}
	if policy.RequireAxisStability && !sc.AxisStable {
		return false
	}
	return true
}
