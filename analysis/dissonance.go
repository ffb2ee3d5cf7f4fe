// Package analysis is the post-hoc analysis pass: a 4-phase dissonance
// detector, a counterpoint-metrics pass, and a unified report combining
// both with the diagnostics report package.
package analysis

import (
	"fmt"
	"sort"

	"bachgen/harmony"
	"bachgen/jsonutil"
	"bachgen/pitch"
	"bachgen/tick"
)

// Severity is how seriously a detected dissonance should be taken.
type Severity int

const (
	Low Severity = iota
	Medium
	High
)

func (s Severity) String() string {
	switch s {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return "unknown"
}

// Type is which of the four detection phases found an event.
type Type int

const (
	SimultaneousClash Type = iota
	NonChordTone
	SustainedOverChordChange
	NonDiatonicNote
)

func (t Type) String() string {
	switch t {
	case SimultaneousClash:
		return "simultaneous_clash"
	case NonChordTone:
		return "non_chord_tone"
	case SustainedOverChordChange:
		return "sustained_over_chord_change"
	case NonDiatonicNote:
		return "non_diatonic_note"
	}
	return "unknown"
}

// Event is a single detected dissonance.
type Event struct {
	Type        Type
	Severity    Severity
	Tick        int
	Bar         int // 1-based
	Beat        int // 1-based, within bar
	Pitch       int
	OtherPitch  int // second pitch for clash events, 0 if n/a
	VoiceA      int
	VoiceB      int
	Interval    int // semitones, for clash events
	Description string
}

// Summary tallies a Result's events by severity and phase, plus dissonance
// density per beat.
type Summary struct {
	Total                         int
	HighCount                     int
	MediumCount                   int
	LowCount                      int
	SimultaneousClashCount        int
	NonChordToneCount             int
	SustainedOverChordChangeCount int
	NonDiatonicNoteCount          int
	DensityPerBeat                float64
	WeightedDensityPerBeat        float64
}

// Result is the complete output of a dissonance analysis pass.
type Result struct {
	Events  []Event
	Summary Summary
}

func barBeat(t int, ts tick.TimeSig) (bar, beat int) {
	barLen := tick.PerBar(ts)
	if barLen <= 0 {
		barLen = tick.PerBar(tick.FourFour)
	}
	bar = t/barLen + 1
	rel := tick.BarRelative(t, ts)
	beatLen := tick.Beat * 4 / ts.Den
	if beatLen <= 0 {
		beatLen = tick.Beat
	}
	beat = rel/beatLen + 1
	return bar, beat
}

func summarize(events []Event, totalBeats int) Summary {
	var s Summary
	for _, e := range events {
		s.Total++
		switch e.Severity {
		case High:
			s.HighCount++
		case Medium:
			s.MediumCount++
		case Low:
			s.LowCount++
		}
		switch e.Type {
		case SimultaneousClash:
			s.SimultaneousClashCount++
		case NonChordTone:
			s.NonChordToneCount++
		case SustainedOverChordChange:
			s.SustainedOverChordChangeCount++
		case NonDiatonicNote:
			s.NonDiatonicNoteCount++
		}
	}
	if totalBeats > 0 {
		s.DensityPerBeat = float64(s.Total) / float64(totalBeats)
		weighted := float64(s.HighCount) + 0.5*float64(s.MediumCount)
		s.WeightedDensityPerBeat = weighted / float64(totalBeats)
	}
	return s
}

func soundingAt(notes []tick.Note, t int) []tick.Note {
	var out []tick.Note
	for _, n := range notes {
		if n.StartTick <= t && t < n.EndTick() {
			out = append(out, n)
		}
	}
	return out
}

func maxEndTick(notes []tick.Note) int {
	end := 0
	for _, n := range notes {
		if e := n.EndTick(); e > end {
			end = e
		}
	}
	return end
}

// DetectSimultaneousClashes is phase 1: beat-by-beat interval scanning
// across all sounding voices, Organ system only. Harsh dissonances (m2,
// tritone, M7) are High on a strong beat and Medium on a weak beat; mild
// dissonances (M2, m7) are Medium on a strong beat and Low on a weak beat.
// Perfect/imperfect consonances and fourths (whether or not the bass is
// one of the pair) are not flagged (the coordinator already enforces those at
// generation time; this phase exists to catch exceptions that slipped
// through immutable/lightweight sources).
func DetectSimultaneousClashes(notes []tick.Note, numVoices int) []Event {
	var events []Event
	end := maxEndTick(notes)
	for t := 0; t < end; t += tick.Beat {
		sounding := soundingAt(notes, t)
		if len(sounding) < 2 {
			continue
		}
		strong := tick.IsStrongBeat(tick.BarRelative(t, tick.FourFour))
		for i := 0; i < len(sounding); i++ {
			for j := i + 1; j < len(sounding); j++ {
				a, b := sounding[i], sounding[j]
				si := pitch.SimpleInterval(a.Pitch, b.Pitch)
				sev, flag := clashSeverity(si, strong)
				if !flag {
					continue
				}
				bar, beat := barBeat(t, tick.FourFour)
				events = append(events, Event{
					Type:        SimultaneousClash,
					Severity:    sev,
					Tick:        t,
					Bar:         bar,
					Beat:        beat,
					Pitch:       a.Pitch,
					OtherPitch:  b.Pitch,
					VoiceA:      a.VoiceID,
					VoiceB:      b.VoiceID,
					Interval:    si,
					Description: fmt.Sprintf("interval %d between voices %d and %d", si, a.VoiceID, b.VoiceID),
				})
			}
		}
	}
	return events
}

func clashSeverity(simpleInterval int, strong bool) (Severity, bool) {
	switch {
	case pitch.IsHarshDissonance(simpleInterval):
		if strong {
			return High, true
		}
		return Medium, true
	case simpleInterval == 2 || simpleInterval == 10:
		if strong {
			return Medium, true
		}
		return Low, true
	default:
		return Low, false
	}
}

// DualTimelineMode selects the precedence rule between the primary
// analysis timeline and an optional secondary (generation-time) timeline
// in phase 2 (see DESIGN.md Open Question 1).
type DualTimelineMode int

const (
	// PrimaryWinsLeftEdge: the primary timeline's verdict stands for a
	// note starting exactly on a secondary event's left edge; the
	// secondary timeline governs ticks strictly interior to its event.
	// This is the default.
	PrimaryWinsLeftEdge DualTimelineMode = iota
	// SecondaryGovernsAll: the secondary timeline may downgrade at every
	// tick, boundaries included.
	SecondaryGovernsAll
)

// DetectNonChordTones is phase 2: flags notes whose pitch class is not
// among the chord tones sounding at their start tick. If genTimeline is
// non-nil and the note is a chord tone there, the severity is downgraded
// to Low, subject to the DualTimelineMode precedence rule.
func DetectNonChordTones(notes []tick.Note, timeline *harmony.Timeline, genTimeline *harmony.Timeline, mode DualTimelineMode) []Event {
	var events []Event
	for _, n := range notes {
		ev := timeline.GetAt(n.StartTick)
		tones := chordTonePitchClasses(ev.Chord)
		pc := ((n.Pitch % 12) + 12) % 12
		if containsInt(tones, pc) {
			continue
		}
		strong := tick.IsStrongBeat(tick.BarRelative(n.StartTick, tick.FourFour))
		sev := Medium
		if !strong {
			sev = Low
		}
		if genTimeline != nil {
			genEv := genTimeline.GetAt(n.StartTick)
			interior := n.StartTick > genEv.Tick
			if (interior || mode == SecondaryGovernsAll) && containsInt(chordTonePitchClasses(genEv.Chord), pc) {
				sev = Low
			}
		}
		bar, beat := barBeat(n.StartTick, tick.FourFour)
		events = append(events, Event{
			Type:        NonChordTone,
			Severity:    sev,
			Tick:        n.StartTick,
			Bar:         bar,
			Beat:        beat,
			Pitch:       n.Pitch,
			VoiceA:      n.VoiceID,
			Description: fmt.Sprintf("pitch class %d not in chord at tick %d", pc, n.StartTick),
		})
	}
	return events
}

// DetectSustainedOverChordChange is phase 3: a note held across a harmonic
// timeline event boundary whose pitch is not a chord tone of the chord
// that begins at the boundary, Organ system only.
func DetectSustainedOverChordChange(notes []tick.Note, numVoices int, timeline *harmony.Timeline) []Event {
	var events []Event
	for _, ev := range timeline.Events() {
		if ev.Tick == 0 {
			continue
		}
		tones := chordTonePitchClasses(ev.Chord)
		for _, n := range notes {
			if n.StartTick >= ev.Tick || n.EndTick() <= ev.Tick {
				continue
			}
			pc := ((n.Pitch % 12) + 12) % 12
			if containsInt(tones, pc) {
				continue
			}
			bar, beat := barBeat(ev.Tick, tick.FourFour)
			events = append(events, Event{
				Type:        SustainedOverChordChange,
				Severity:    High,
				Tick:        ev.Tick,
				Bar:         bar,
				Beat:        beat,
				Pitch:       n.Pitch,
				VoiceA:      n.VoiceID,
				Description: fmt.Sprintf("voice %d sustains pitch %d across chord change at tick %d", n.VoiceID, n.Pitch, ev.Tick),
			})
		}
	}
	return events
}

// DetectNonDiatonicNotes is phase 4: pitches outside the key's scale.
func DetectNonDiatonicNotes(notes []tick.Note, key pitch.Key) []Event {
	scale := pitch.DefaultScale(key)
	var events []Event
	for _, n := range notes {
		if pitch.IsScaleTone(n.Pitch, key, scale) {
			continue
		}
		strong := tick.IsStrongBeat(tick.BarRelative(n.StartTick, tick.FourFour))
		sev := Medium
		if !strong {
			sev = Low
		}
		bar, beat := barBeat(n.StartTick, tick.FourFour)
		events = append(events, Event{
			Type:        NonDiatonicNote,
			Severity:    sev,
			Tick:        n.StartTick,
			Bar:         bar,
			Beat:        beat,
			Pitch:       n.Pitch,
			VoiceA:      n.VoiceID,
			Description: fmt.Sprintf("pitch %d outside %s scale", n.Pitch, key.Tonic),
		})
	}
	return events
}

// AnalyzeOrganDissonance runs all 4 phases, the keyboard-system routing.
func AnalyzeOrganDissonance(notes []tick.Note, numVoices int, timeline *harmony.Timeline, key pitch.Key, genTimeline *harmony.Timeline, mode DualTimelineMode) Result {
	var events []Event
	events = append(events, DetectSimultaneousClashes(notes, numVoices)...)
	events = append(events, DetectNonChordTones(notes, timeline, genTimeline, mode)...)
	events = append(events, DetectSustainedOverChordChange(notes, numVoices, timeline)...)
	events = append(events, DetectNonDiatonicNotes(notes, key)...)
	return finalizeResult(events, notes)
}

// AnalyzeSoloStringDissonance runs phases 2 + 4, skipping the
// keyboard-only clash/sustain phases, which need simultaneously-sounding
// independent voices a solo line never has.
func AnalyzeSoloStringDissonance(notes []tick.Note, timeline *harmony.Timeline, key pitch.Key) Result {
	var events []Event
	events = append(events, DetectNonChordTones(notes, timeline, nil, PrimaryWinsLeftEdge)...)
	events = append(events, DetectNonDiatonicNotes(notes, key)...)
	return finalizeResult(events, notes)
}

func finalizeResult(events []Event, notes []tick.Note) Result {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Tick < events[j].Tick })
	end := maxEndTick(notes)
	totalBeats := end / tick.Beat
	return Result{Events: events, Summary: summarize(events, totalBeats)}
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// ToTextSummary renders a short human-readable summary line per system.
func (r Result) ToTextSummary(systemName string, numVoices int) string {
	s := r.Summary
	return fmt.Sprintf("%s (%d voices): %d dissonances (%d high, %d medium, %d low), density %.3f/beat",
		systemName, numVoices, s.Total, s.HighCount, s.MediumCount, s.LowCount, s.DensityPerBeat)
}

// ToJSON renders the full result as pretty-printed JSON.
func (r Result) ToJSON() string {
	w := jsonutil.NewWriter("  ")
	writeDissonanceObject(w, r)
	return w.ToString()
}
