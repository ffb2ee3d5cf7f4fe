// Package harmony implements the variable-resolution harmonic timeline
// that every generator consults as a single source of truth.
package harmony

import "bachgen/pitch"

// Event is one harmonic-timeline entry.
type Event struct {
	Tick        int
	EndTick     int
	Key         pitch.Key
	Chord       Chord
	BassPitch   int
	Weight      float64
	IsImmutable bool
}

// Timeline is an append-only, chronologically ordered vector of harmonic
// events.
type Timeline struct {
	events []Event
}

// defaultEvent is returned by GetAt when the timeline is empty or the
// query precedes the first event: C major / I chord.
func defaultEvent() Event {
	k := pitch.Key{Tonic: pitch.C, IsMinor: false}
	return Event{
		Tick:      0,
		EndTick:   0,
		Key:       k,
		Chord:     NewChord(k, I),
		BassPitch: 36 + RootPitchClass(k, I), // octave 2 bass anchor
		Weight:    1.0,
	}
}

// Append adds an event, preserving the weakly-monotonic-tick invariant.
// Events must already be in non-decreasing tick order; Append never
// reorders.
func (tl *Timeline) Append(e Event) {
	tl.events = append(tl.events, e)
}

// Events returns the read-only event slice.
func (tl *Timeline) Events() []Event { return tl.events }

// GetAt returns the event with the largest tick <= query, or the default
// C-major/I event when the timeline is empty or query precedes the first
// event.
func (tl *Timeline) GetAt(queryTick int) Event {
	best := -1
	for i := len(tl.events) - 1; i >= 0; i-- {
		if tl.events[i].Tick <= queryTick {
			best = i
			break
		}
	}
	if best == -1 {
		return defaultEvent()
	}
	return tl.events[best]
}

// IsKeyChange reports whether some event starts exactly at tick and its
// {tonic, is_minor} differs from the preceding event's; the first event
// counts as a change when it differs from the default.
func (tl *Timeline) IsKeyChange(tick int) bool {
	idx := -1
	for i, e := range tl.events {
		if e.Tick == tick {
			idx = i
		}
	}
	if idx == -1 {
		return false
	}
	var prevKey pitch.Key
	if idx == 0 {
		prevKey = defaultEvent().Key
	} else {
		prevKey = tl.events[idx-1].Key
	}
	cur := tl.events[idx].Key
	return cur.Tonic != prevKey.Tonic || cur.IsMinor != prevKey.IsMinor
}

// Resolution selects the granularity create_standard generates at.
type Resolution int

const (
	Beat Resolution = iota
	Bar
	Section
)

const (
	ticksPerBeat = 480
	ticksPerBar  = 1920
)

// CreateStandard generates an I-IV-V-I progression at the requested
// resolution with metric weights {1.0, 0.5, 0.75, 1.0}. Chord roots are
// placed in octave 4; bass pitches are root-position roots in octave 2.
func CreateStandard(k pitch.Key, totalTicks int, res Resolution) *Timeline {
	degrees := [4]Degree{I, IV, V, I}
	weights := [4]float64{1.0, 0.5, 0.75, 1.0}

	var step int
	switch res {
	case Beat:
		step = ticksPerBeat
	case Bar:
		step = ticksPerBar
	default: // Section
		step = totalTicks / 4
		if step <= 0 {
			step = ticksPerBar
		}
	}

	tl := &Timeline{}
	tick := 0
	for i := 0; i < 4; i++ {
		end := tick + step
		if i == 3 {
			end = totalTicks
		}
		tl.Append(buildEvent(k, degrees[i], tick, end, weights[i], false))
		tick = end
	}
	return tl
}

func buildEvent(k pitch.Key, d Degree, startTick, endTick int, weight float64, immutable bool) Event {
	return Event{
		Tick:        startTick,
		EndTick:     endTick,
		Key:         k,
		Chord:       NewChord(k, d),
		BassPitch:   36 + RootPitchClass(k, d),
		Weight:      weight,
		IsImmutable: immutable,
	}
}

// ProgressionTemplate names an additional progression shape beyond the
// standard I-IV-V-I.
type ProgressionTemplate int

const (
	CircleOfFifths ProgressionTemplate = iota
	Subdominant
	ChromaticCircle
	BorrowedChord
	DescendingFifths
)

// CreateProgression generates a timeline from one of the named templates,
// evenly spaced across totalTicks at the given resolution step.
func CreateProgression(k pitch.Key, totalTicks int, tmpl ProgressionTemplate, res Resolution) *Timeline {
	var degrees []Degree
	switch tmpl {
	case CircleOfFifths:
		degrees = []Degree{I, IV, VII, III, VI, II, V, I}
	case Subdominant:
		degrees = []Degree{I, II, IV, I}
	case ChromaticCircle:
		degrees = []Degree{I, VI, IV, V, I}
	case BorrowedChord:
		degrees = []Degree{I, IV, I, V, I}
	case DescendingFifths:
		degrees = []Degree{I, IV, VII, III, VI, II, V, I}
	default:
		degrees = []Degree{I, IV, V, I}
	}

	var step int
	switch res {
	case Beat:
		step = ticksPerBeat
	case Bar:
		step = ticksPerBar
	default:
		step = totalTicks / len(degrees)
		if step <= 0 {
			step = ticksPerBar
		}
	}

	tl := &Timeline{}
	tick := 0
	n := len(degrees)
	for i, d := range degrees {
		end := tick + step
		if i == n-1 {
			end = totalTicks
		}
		w := 0.5
		if i == 0 || i == n-1 {
			w = 1.0
		}
		tl.Append(buildEvent(k, d, tick, end, w, false))
		tick = end
	}
	return tl
}

// Cadence names a cadence overlay shape.
type Cadence int

const (
	Perfect Cadence = iota
	Deceptive
	Half
	Phrygian
	PicardyThird
)

// ApplyCadence rewrites the final 1-2 events of tl to realize the named
// cadence, clamped to the timeline's own tick range.
func ApplyCadence(tl *Timeline, k pitch.Key, c Cadence) {
	n := len(tl.events)
	if n == 0 {
		return
	}
	last := &tl.events[n-1]
	var penultimateDeg, finalDeg Degree
	finalMinor := k.IsMinor
	switch c {
	case Perfect:
		penultimateDeg, finalDeg = V, I
	case Deceptive:
		penultimateDeg, finalDeg = V, VI
	case Half:
		penultimateDeg, finalDeg = I, V
	case Phrygian:
		penultimateDeg, finalDeg = IV, V
	case PicardyThird:
		penultimateDeg, finalDeg = V, I
		finalMinor = false // Picardy third: final tonic chord forced major
	}

	finalKey := k
	finalKey.IsMinor = finalMinor

	if n >= 2 {
		prev := &tl.events[n-2]
		prev.Chord = NewChord(k, penultimateDeg)
		prev.BassPitch = 36 + RootPitchClass(k, penultimateDeg)
		prev.Weight = 0.75
	}
	last.Chord = NewChord(finalKey, finalDeg)
	if c == PicardyThird {
		// force the triad's quality to Major regardless of table
		last.Chord.Quality = MajorQ
	}
	last.BassPitch = 36 + RootPitchClass(finalKey, finalDeg)
	last.Weight = 1.0
}
