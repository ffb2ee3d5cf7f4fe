// Package coordinate implements the multi-voice coordinator: a per-tick,
// per-voice acceptance pass that merges notes proposed by subjects,
// arpeggio/flow layers, pedal points, and textures into one consonant,
// non-crashing note stream.
package coordinate

import (
	"fmt"
	"sort"

	"bachgen/harmony"
	"bachgen/pitch"
	"bachgen/tick"
	"bachgen/vertical"
)

// VoiceRange is an inclusive playable pitch window for one voice.
type VoiceRange struct {
	Low, High int
}

// Config parameterizes one coordination pass.
type Config struct {
	Key                pitch.Key
	Scale              pitch.Scale
	Timeline           *harmony.Timeline
	NumVoices          int
	VoiceRanges        map[int]VoiceRange
	NextPitchLookahead map[int]int // voice -> next known pitch, for resolution scoring
	CrossRelationCheck bool
	WeakBeatAllow      vertical.WeakBeatAllow
	SearchBudget       int // K alternatives enumerated per full-tier note, default 5
}

// Diagnostic records a dropped note. Coordination never fails outright; a
// dropped note leaves a rest in that voice at that tick.
type Diagnostic struct {
	Tick   int
	Voice  int
	Reason string
}

// Coordinate merges proposed notes into a placed-notes list plus any drop
// diagnostics.
func Coordinate(proposed []tick.Note, cfg Config) ([]tick.Note, []Diagnostic) {
	if cfg.SearchBudget <= 0 {
		cfg.SearchBudget = 5
	}
	groups := map[int][]tick.Note{}
	var ticks []int
	for _, n := range proposed {
		if _, ok := groups[n.StartTick]; !ok {
			ticks = append(ticks, n.StartTick)
		}
		groups[n.StartTick] = append(groups[n.StartTick], n)
	}
	sort.Ints(ticks)

	ctx := &vertical.Context{Timeline: cfg.Timeline, NumVoices: cfg.NumVoices, WeakBeatAllow: cfg.WeakBeatAllow}
	var diags []Diagnostic

	for _, t := range ticks {
		group := groups[t]
		sort.SliceStable(group, func(i, j int) bool {
			iImm, jImm := group[i].Source.Immutable(), group[j].Source.Immutable()
			if iImm != jImm {
				return iImm
			}
			// lower voices (bass, tenor) process first: descending voice index
			// under the convention that higher VoiceID is a lower voice.
			return group[i].VoiceID > group[j].VoiceID
		})

		for _, n := range group {
			switch {
			case n.Source.Immutable():
				ctx.Placed = append(ctx.Placed, n)
			case n.Source.Lightweight():
				if accepted, reason := acceptLightweight(ctx, n, cfg); accepted {
					ctx.Placed = append(ctx.Placed, n)
				} else {
					diags = append(diags, Diagnostic{Tick: n.StartTick, Voice: n.VoiceID, Reason: reason})
				}
			default:
				if chosen, ok := acceptFull(ctx, n, cfg); ok {
					ctx.Placed = append(ctx.Placed, chosen)
				} else {
					diags = append(diags, Diagnostic{Tick: n.StartTick, Voice: n.VoiceID, Reason: "no in-range alternative passed vertical+cross-relation check"})
				}
			}
		}
	}

	sort.SliceStable(ctx.Placed, func(i, j int) bool {
		if ctx.Placed[i].StartTick != ctx.Placed[j].StartTick {
			return ctx.Placed[i].StartTick < ctx.Placed[j].StartTick
		}
		return ctx.Placed[i].VoiceID < ctx.Placed[j].VoiceID
	})
	return ctx.Placed, diags
}

func inRange(cfg Config, voice, p int) bool {
	r, ok := cfg.VoiceRanges[voice]
	if !ok {
		return true
	}
	return p >= r.Low && p <= r.High
}

// acceptLightweight runs the range check -> strong-beat chord-tone check ->
// vertical consonance check, with no melodic rewriting.
func acceptLightweight(ctx *vertical.Context, n tick.Note, cfg Config) (bool, string) {
	if !inRange(cfg, n.VoiceID, n.Pitch) {
		return false, "out of voice range"
	}
	if tick.IsStrongBeat(tick.BarRelative(n.StartTick, tick.FourFour)) && cfg.Timeline != nil {
		ev := cfg.Timeline.GetAt(n.StartTick)
		if !chordToneMatch(ev, n.Pitch) {
			return false, "strong beat without chord tone"
		}
	}
	if !ctx.IsSafe(n.StartTick, n.VoiceID, n.Pitch) {
		return false, "vertical consonance failed"
	}
	return true, ""
}

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

func chordToneMatch(ev harmony.Event, p int) bool {
	intervals, ok := qualityIntervals[ev.Chord.Quality]
	if !ok {
		intervals = []int{0, 4, 7}
	}
	rootPC := ((ev.Chord.RootPitch % 12) + 12) % 12
	pc := ((p % 12) + 12) % 12
	for _, iv := range intervals {
		if pc == (rootPC+iv)%12 {
			return true
		}
	}
	return false
}

// acceptFull enumerates up to K in-range scale-neighbor alternatives
// (starting with the scale tone nearest the original pitch, which is the
// pitch itself when it is on the scale), ranks by melodic quality times vertical
// score, and accepts the first whose cross-relation check (if enabled)
// also passes.
func acceptFull(ctx *vertical.Context, n tick.Note, cfg Config) (tick.Note, bool) {
	candidates := scaleNeighbors(n.Pitch, cfg.Key, cfg.Scale, cfg.SearchBudget)
	type scored struct {
		pitch int
		score float64
	}
	var ranked []scored
	for _, p := range candidates {
		if !inRange(cfg, n.VoiceID, p) {
			continue
		}
		if !ctx.IsSafe(n.StartTick, n.VoiceID, p) {
			continue
		}
		mq := melodicQuality(ctx, n.VoiceID, n.StartTick, p, cfg)
		vs := ctx.Score(n.StartTick, n.VoiceID, p)
		ranked = append(ranked, scored{pitch: p, score: mq * vs})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	for _, r := range ranked {
		if cfg.CrossRelationCheck && crossRelationViolated(ctx, n.VoiceID, n.StartTick, r.pitch) {
			continue
		}
		chosen := n
		chosen.Pitch = r.pitch
		return chosen, true
	}
	return tick.Note{}, false
}

// scaleNeighbors returns the scale tone nearest center (center itself when
// it is on the scale) plus further scale tones outward, up to budget
// entries.
func scaleNeighbors(center int, k pitch.Key, s pitch.Scale, budget int) []int {
	out := []int{pitch.NearestScaleTone(center, k, s)}
	for d := 1; len(out) < budget && d <= 7; d++ {
		up := pitch.NearestScaleTone(center+d, k, s)
		down := pitch.NearestScaleTone(center-d, k, s)
		if !containsInt(out, up) {
			out = append(out, up)
		}
		if len(out) < budget && !containsInt(out, down) {
			out = append(out, down)
		}
	}
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// melodicQuality scores a candidate pitch's melodic fit against the
// previous same-voice notes.
func melodicQuality(ctx *vertical.Context, voice, t, p int, cfg Config) float64 {
	score := 0.5
	prev := ctx.FindPrevPitch(voice, t)
	prevPrev := prevBeforePrev(ctx, voice, t, prev)

	interval := p - prev
	absInterval := interval
	if absInterval < 0 {
		absInterval = -absInterval
	}
	if prev != 0 {
		prevInterval := prev - prevPrev
		wasLeap := absGE(prevInterval, 5)
		isStep := absInterval == 1 || absInterval == 2
		if wasLeap && isStep && sameSignOpposite(prevInterval, interval) {
			score += 0.3
		}
		if isStep {
			score += 0.2
		}
		si := pitch.SimpleInterval(p, prev)
		if pitch.IsImperfectConsonance(si) {
			score += 0.1
		}
		if absInterval == 6 {
			score -= 0.3
		}
	}

	if repeatedTwice(ctx, voice, t, p) {
		score -= 0.2
	}

	if prev != 0 && leadingTone(prev, cfg.Key) {
		resolvesUp := p-prev == 1
		if resolvesUp {
			score += 0.1
		} else {
			score -= 0.5
		}
	}

	// resolution scoring against the voice's known upcoming pitch
	if next, ok := cfg.NextPitchLookahead[voice]; ok {
		d := next - p
		if d < 0 {
			d = -d
		}
		if d <= 2 {
			score += 0.1
		}
	}

	return clamp01(score)
}

func absGE(v, n int) bool {
	if v < 0 {
		v = -v
	}
	return v >= n
}

func sameSignOpposite(a, b int) bool {
	if a == 0 || b == 0 {
		return false
	}
	return (a > 0) != (b > 0)
}

// prevBeforePrev finds the pitch of the same-voice note immediately
// preceding the one at prevPitch's tick (the second-most-recent note),
// used to test for leap-then-step contrary motion. Falls back to prevPitch
// (reporting a repeated value, i.e. no leap) when there is no such note.
func prevBeforePrev(ctx *vertical.Context, voice, beforeTick, prevPitch int) int {
	var sameVoice []tick.Note
	for _, n := range ctx.Placed {
		if n.VoiceID == voice && n.StartTick < beforeTick {
			sameVoice = append(sameVoice, n)
		}
	}
	if len(sameVoice) < 2 {
		return prevPitch
	}
	sort.Slice(sameVoice, func(i, j int) bool { return sameVoice[i].StartTick > sameVoice[j].StartTick })
	return sameVoice[1].Pitch
}

func repeatedTwice(ctx *vertical.Context, voice, beforeTick, p int) bool {
	count := 0
	var sameVoice []tick.Note
	for _, n := range ctx.Placed {
		if n.VoiceID == voice && n.StartTick < beforeTick {
			sameVoice = append(sameVoice, n)
		}
	}
	sort.Slice(sameVoice, func(i, j int) bool { return sameVoice[i].StartTick > sameVoice[j].StartTick })
	for _, n := range sameVoice {
		if n.Pitch == p {
			count++
		} else {
			break
		}
		if count >= 2 {
			return true
		}
	}
	return false
}

func leadingTone(pitchVal int, k pitch.Key) bool {
	leadingClass := (((int(k.Tonic) - 1) % 12) + 12) % 12
	return pitchVal%12 == leadingClass
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// crossRelationViolated reports a cross-relation: a raised or lowered
// chromatic alteration of the same pitch class sounding in a different
// voice at the same tick.
func crossRelationViolated(ctx *vertical.Context, voice, t, p int) bool {
	for _, n := range ctx.Placed {
		if n.VoiceID == voice {
			continue
		}
		if n.StartTick != t {
			continue
		}
		diff := (((n.Pitch - p) % 12) + 12) % 12
		if diff == 1 || diff == 11 {
			return true
		}
	}
	return false
}

// String satisfies fmt.Stringer for diagnostics, used by report generation.
func (d Diagnostic) String() string {
	return fmt.Sprintf("tick=%d voice=%d: %s", d.Tick, d.Voice, d.Reason)
}
