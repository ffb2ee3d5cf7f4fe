// Package vertical implements the vertical-context consonance check: at
// each tick, whether a pitch is safe for a voice given already-placed
// notes and the harmonic timeline. Chord-tone status never exempts a
// candidate from the interval check (vertical sovereignty).
package vertical

import (
	"bachgen/harmony"
	"bachgen/pitch"
	"bachgen/tick"
)

// WeakBeatAllow is the optional predicate that whitelists passing tones,
// neighbors, and suspensions on otherwise-rejected weak-beat dissonances.
// Receives (tick, voice, candidatePitch, otherPitch, simpleInterval,
// melodicPrevPitch).
type WeakBeatAllow func(t, voice, candidatePitch, otherPitch, simpleInterval, melodicPrevPitch int) bool

// Context provides is_safe/score/find_prev_pitch over a growing set of
// already-placed notes.
type Context struct {
	Placed        []tick.Note
	Timeline      *harmony.Timeline
	NumVoices     int
	WeakBeatAllow WeakBeatAllow
}

// IsSafe reports whether pitch is vertically safe for voice at tick,
// against every other currently-sounding voice.
func (c *Context) IsSafe(t, voice, p int) bool {
	others := soundingOtherVoices(c.Placed, t, voice)
	if len(others) == 0 {
		return true
	}
	strong := tick.IsStrongBeat(tick.BarRelative(t, tick.FourFour))
	lowestSounding := lowestPitch(others, p)
	for _, other := range others {
		si := pitch.SimpleInterval(p, other.Pitch)
		if strong {
			if pitch.IsPerfectConsonance(si) || pitch.IsImperfectConsonance(si) {
				continue
			}
			// P4 is allowed only when neither member of the pair is the
			// lowest (bass) pitch currently sounding.
			if pitch.IsFourth(si) && p != lowestSounding && other.Pitch != lowestSounding {
				continue
			}
			return false
		}
		// weak beat
		if pitch.IsHarshDissonance(si) {
			if c.WeakBeatAllow != nil {
				prev := c.FindPrevPitch(voice, t)
				if c.WeakBeatAllow(t, voice, p, other.Pitch, si, prev) {
					continue
				}
			}
			return false
		}
	}
	return true
}

// lowestPitch returns the lowest pitch among candidate p and the other
// currently-sounding notes, used to decide whether a P4 is "against the
// bass" (disallowed) or between upper voices (allowed).
func lowestPitch(others []tick.Note, p int) int {
	lowest := p
	for _, o := range others {
		if o.Pitch < lowest {
			lowest = o.Pitch
		}
	}
	return lowest
}

func soundingOtherVoices(placed []tick.Note, t, voice int) []tick.Note {
	var out []tick.Note
	for _, n := range placed {
		if n.VoiceID == voice {
			continue
		}
		if n.StartTick <= t && t < n.EndTick() {
			out = append(out, n)
		}
	}
	return out
}

// Score scores a candidate pitch for vertical quality, 0.0 if IsSafe is
// false. 1.0 for P1/P5/P8, 0.8 for imperfect consonance, 0.5 for P4 between
// upper voices, 0.3 for tolerated weak-beat non-harsh dissonance, 1.0 when
// no other voice is sounding.
func (c *Context) Score(t, voice, p int) float64 {
	others := soundingOtherVoices(c.Placed, t, voice)
	if len(others) == 0 {
		return 1.0
	}
	if !c.IsSafe(t, voice, p) {
		return 0.0
	}
	best := 0.3
	for _, other := range others {
		si := pitch.SimpleInterval(p, other.Pitch)
		var s float64
		switch {
		case pitch.IsPerfectConsonance(si):
			s = 1.0
		case pitch.IsImperfectConsonance(si):
			s = 0.8
		case pitch.IsFourth(si):
			s = 0.5
		default:
			s = 0.3
		}
		if s > best {
			best = s
		}
	}
	return best
}

// FindPrevPitch returns the most recent same-voice pitch before tick, 0 if
// none.
func (c *Context) FindPrevPitch(voice, beforeTick int) int {
	best := -1
	bestTick := -1
	for _, n := range c.Placed {
		if n.VoiceID != voice {
			continue
		}
		if n.StartTick < beforeTick && n.StartTick > bestTick {
			bestTick = n.StartTick
			best = n.Pitch
		}
	}
	if best == -1 {
		return 0
	}
	return best
}
