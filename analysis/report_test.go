package analysis

import (
	"strings"
	"testing"

	"bachgen/harmony"
	"bachgen/pitch"
	"bachgen/tick"
)

func TestSystemForFormRouting(t *testing.T) {
	if SystemForForm("Fugue") != Organ {
		t.Error("Fugue should route to Organ")
	}
	if SystemForForm("Goldberg") != Organ {
		t.Error("Goldberg should route to Organ")
	}
	if SystemForForm("Chaconne") != SoloString {
		t.Error("Chaconne should route to SoloString")
	}
}

func TestRunProducesOverallPassOnCleanInput(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	tl := &harmony.Timeline{}
	tl.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.I)})
	tracks := []tick.Track{
		{VoiceID: 0, Notes: []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 72, VoiceID: 0}}},
		{VoiceID: 1, Notes: []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 64, VoiceID: 1}}},
	}
	r := Run(tracks, "Fugue", 2, tl, k, nil, PrimaryWinsLeftEdge)
	if !r.OverallPass {
		t.Errorf("expected overall pass on clean input, got %+v", r)
	}
}

func TestRunProducesOverallFailOnHighSeverityClash(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	tl := &harmony.Timeline{}
	tl.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.I)})
	tracks := []tick.Track{
		{VoiceID: 0, Notes: []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 60, VoiceID: 0}}},
		{VoiceID: 1, Notes: []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 61, VoiceID: 1}}},
	}
	r := Run(tracks, "Fugue", 2, tl, k, nil, PrimaryWinsLeftEdge)
	if r.OverallPass {
		t.Error("expected overall fail with a strong-beat minor second clash")
	}
}

func TestReportToJSONNestsDissonanceObject(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	tl := &harmony.Timeline{}
	tl.Append(harmony.Event{Tick: 0, EndTick: tick.PerBar(tick.FourFour), Key: k, Chord: harmony.NewChord(k, harmony.I)})
	tracks := []tick.Track{
		{VoiceID: 0, Notes: []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 72, VoiceID: 0}}},
	}
	r := Run(tracks, "Chaconne", 1, tl, k, nil, PrimaryWinsLeftEdge)
	j := r.ToJSON("Chaconne", 1)
	for _, want := range []string{`"counterpoint"`, `"dissonance"`, `"overall_pass"`, `"system": "SoloString"`} {
		if !strings.Contains(j, want) {
			t.Errorf("missing %q in:\n%s", want, j)
		}
	}
}

func TestReportToTextSummaryMentionsStatus(t *testing.T) {
	k := pitch.Key{Tonic: pitch.C}
	tl := &harmony.Timeline{}
	tracks := []tick.Track{{VoiceID: 0, Notes: []tick.Note{{StartTick: 0, Duration: tick.Beat, Pitch: 72, VoiceID: 0}}}}
	r := Run(tracks, "Fugue", 1, tl, k, nil, PrimaryWinsLeftEdge)
	s := r.ToTextSummary("Fugue", 1)
	if !strings.Contains(s, "overall:") {
		t.Errorf("expected overall status line, got %q", s)
	}
}
