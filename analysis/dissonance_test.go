package analysis

import (
	"strings"
	"testing"

	"bachgen/harmony"
	"bachgen/pitch"
	"bachgen/tick"
)

func TestDetectSimultaneousClashesFindsStrongBeatMinorSecond(t *testing.T) {
	notes := []tick.Note{
		{StartTick: 0, Duration: tick.Beat, Pitch: 60, VoiceID: 0},
		{StartTick: 0, Duration: tick.Beat, Pitch: 61, VoiceID: 1},
	}
	events := DetectSimultaneousClashes(notes, 2)
	if len(events) != 1 {
		t.Fatalf("expected 1 clash event, got %d", len(events))
	}
	if events[0].Severity != High {
		t.Errorf("strong-beat m2 should be High severity, got %v", events[0].Severity)
	}
}

func TestDetectSimultaneousClashesIgnoresConsonance(t *testing.T) {
	notes := []tick.Note{
		{StartTick: 0, Duration: tick.Beat, Pitch: 60, VoiceID: 0},
		{StartTick: 0, Duration: tick.Beat, Pitch: 67, VoiceID: 1}, // P5
	}
	events := DetectSimultaneousClashes(notes, 2)
	if len(events) != 0 {
		t.Errorf("expected no events for a perfect fifth, got %v", events)
	}
}

func TestDetectNonChordToneFlagsOutsideChord(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	tl := &harmony.Timeline{}
	tl.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.I)})
	notes := []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 61, VoiceID: 0}} // C#, not in C major triad
	events := DetectNonChordTones(notes, tl, nil, PrimaryWinsLeftEdge)
	if len(events) != 1 {
		t.Fatalf("expected 1 non-chord-tone event, got %d", len(events))
	}
}

func TestDetectNonChordToneDowngradedByGenerationTimeline(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	primary := &harmony.Timeline{}
	primary.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.I)})
	secondary := &harmony.Timeline{}
	secondary.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.V)})
	// D (pitch class 2) is a chord tone of V (G-B-D) but not of I (C-E-G).
	// The note starts interior to the secondary event, so the secondary
	// timeline's chord-tone reading downgrades it.
	notes := []tick.Note{{StartTick: tick.Beat, Duration: tick.Beat, Pitch: 62, VoiceID: 0}}
	events := DetectNonChordTones(notes, primary, secondary, PrimaryWinsLeftEdge)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Severity != Low {
		t.Errorf("secondary-timeline chord tone should downgrade to Low, got %v", events[0].Severity)
	}
}

func TestDetectNonChordTonePrimaryWinsOnLeftEdge(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	primary := &harmony.Timeline{}
	primary.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.I)})
	secondary := &harmony.Timeline{}
	secondary.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.V)})
	// Same D-over-I case, but the note starts exactly on the secondary
	// event's left edge: the primary verdict (Medium on a strong beat)
	// must stand under PrimaryWinsLeftEdge.
	notes := []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 62, VoiceID: 0}}
	events := DetectNonChordTones(notes, primary, secondary, PrimaryWinsLeftEdge)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Severity != Medium {
		t.Errorf("left-edge note should keep the primary verdict Medium, got %v", events[0].Severity)
	}
	events = DetectNonChordTones(notes, primary, secondary, SecondaryGovernsAll)
	if events[0].Severity != Low {
		t.Errorf("SecondaryGovernsAll should downgrade the left-edge note to Low, got %v", events[0].Severity)
	}
}

func TestDetectNonDiatonicNotesFlagsChromaticPitch(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	notes := []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 61, VoiceID: 0}} // C#, outside C major
	events := DetectNonDiatonicNotes(notes, k)
	if len(events) != 1 {
		t.Fatalf("expected 1 non-diatonic event, got %d", len(events))
	}
}

func TestDetectNonDiatonicNotesAcceptsHarmonicMinorRaisedSeventh(t *testing.T) {
	k := pitch.Key{Tonic: pitch.A, IsMinor: true}
	// G# (pitch class 8) is the raised leading tone of A harmonic minor.
	notes := []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 68, VoiceID: 0}}
	events := DetectNonDiatonicNotes(notes, k)
	if len(events) != 0 {
		t.Errorf("raised 7th of harmonic minor should not be flagged, got %v", events)
	}
}

func TestDetectSustainedOverChordChangeFindsClash(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	bar := tick.PerBar(tick.FourFour)
	tl := &harmony.Timeline{}
	tl.Append(harmony.Event{Tick: 0, EndTick: bar, Key: k, Chord: harmony.NewChord(k, harmony.I)})
	tl.Append(harmony.Event{Tick: bar, EndTick: 2 * bar, Key: k, Chord: harmony.NewChord(k, harmony.V)})
	// F (pitch class 5) held from before the boundary into the V chord (G-B-D): not a chord tone.
	notes := []tick.Note{{StartTick: bar - tick.Beat, Duration: tick.Beat * 2, Pitch: 65, VoiceID: 0}}
	events := DetectSustainedOverChordChange(notes, 1, tl)
	if len(events) != 1 {
		t.Fatalf("expected 1 sustained-clash event, got %d", len(events))
	}
	if events[0].Severity != High {
		t.Errorf("sustained clash should be High severity, got %v", events[0].Severity)
	}
}

func TestAnalyzeOrganDissonanceRunsAllPhases(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	tl := &harmony.Timeline{}
	tl.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.I)})
	notes := []tick.Note{
		{StartTick: 0, Duration: tick.Beat, Pitch: 60, VoiceID: 0},
		{StartTick: 0, Duration: tick.Beat, Pitch: 61, VoiceID: 1},
	}
	r := AnalyzeOrganDissonance(notes, 2, tl, k, nil, PrimaryWinsLeftEdge)
	if r.Summary.Total == 0 {
		t.Error("expected at least one dissonance event")
	}
}

func TestAnalyzeSoloStringDissonanceSkipsClashPhases(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	tl := &harmony.Timeline{}
	tl.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.I)})
	notes := []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 60, VoiceID: 0}}
	r := AnalyzeSoloStringDissonance(notes, tl, k)
	for _, e := range r.Events {
		if e.Type == SimultaneousClash || e.Type == SustainedOverChordChange {
			t.Errorf("solo string analysis should not run Organ-only phases, found %v", e.Type)
		}
	}
}

func TestResultToJSONContainsSummaryAndEvents(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	tl := &harmony.Timeline{}
	tl.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.I)})
	notes := []tick.Note{
		{StartTick: 0, Duration: tick.Beat, Pitch: 60, VoiceID: 0},
		{StartTick: 0, Duration: tick.Beat, Pitch: 61, VoiceID: 1},
	}
	r := AnalyzeOrganDissonance(notes, 2, tl, k, nil, PrimaryWinsLeftEdge)
	j := r.ToJSON()
	if !strings.Contains(j, `"events"`) || !strings.Contains(j, `"summary"`) {
		t.Errorf("expected summary and events keys, got:\n%s", j)
	}
}
