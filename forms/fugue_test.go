package forms

import (
	"testing"

	"bachgen/pitch"
	"bachgen/subject"
	"bachgen/tick"
)

func TestAssembleFugueBarAlignedDuration(t *testing.T) {
	opt := FugueOptions{
		Key:        pitch.Key{Tonic: pitch.C},
		Character:  subject.Severe,
		NumVoices:  3,
		TargetBars: 16,
		Seed:       42,
	}
	p := AssembleFugue(opt)
	bar := tick.PerBar(tick.FourFour)
	if p.TotalTicks%bar != 0 {
		t.Fatalf("total ticks %d not bar-aligned (bar=%d)", p.TotalTicks, bar)
	}
	if len(p.Tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(p.Tracks))
	}
}

func TestAssembleFugueDeterministic(t *testing.T) {
	opt := FugueOptions{
		Key:        pitch.Key{Tonic: pitch.G},
		Character:  subject.Noble,
		NumVoices:  4,
		TargetBars: 12,
		Seed:       7,
	}
	a := AssembleFugue(opt)
	b := AssembleFugue(opt)
	if len(a.Tracks) != len(b.Tracks) {
		t.Fatalf("nondeterministic track count")
	}
	for v := range a.Tracks {
		if len(a.Tracks[v].Notes) != len(b.Tracks[v].Notes) {
			t.Fatalf("nondeterministic note count in voice %d", v)
		}
		for i := range a.Tracks[v].Notes {
			if a.Tracks[v].Notes[i] != b.Tracks[v].Notes[i] {
				t.Fatalf("nondeterministic note %d in voice %d: %+v vs %+v", i, v, a.Tracks[v].Notes[i], b.Tracks[v].Notes[i])
			}
		}
	}
}

func TestAssembleFugueClampsVoiceCount(t *testing.T) {
	opt := FugueOptions{
		Key:        pitch.Key{Tonic: pitch.D},
		Character:  subject.Playful,
		NumVoices:  8,
		TargetBars: 8,
		Seed:       3,
	}
	p := AssembleFugue(opt)
	if len(p.Tracks) != 4 {
		t.Fatalf("expected voice count clamped to 4, got %d", len(p.Tracks))
	}
}

func TestFugueMetricsBounded(t *testing.T) {
	key := pitch.Key{Tonic: pitch.C}
	p := AssembleFugue(FugueOptions{
		Key:        key,
		Character:  subject.Severe,
		NumVoices:  3,
		TargetBars: 16,
		Seed:       42,
	})
	m := FugueMetricsFor(p, key)
	for name, v := range map[string]float64{
		"answer_accuracy":        m.AnswerAccuracyScore,
		"exposition_completeness": m.ExpositionCompletenessScore,
		"episode_motif_usage":    m.EpisodeMotifUsageRate,
		"tonal_plan":             m.TonalPlanScore,
		"cadence_detection":      m.CadenceDetectionRate,
		"motivic_unity":          m.MotivicUnityScore,
		"tonal_consistency":      m.TonalConsistencyScore,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, want in [0,1]", name, v)
		}
	}
	if m.TonalPlanScore != 1.0 {
		t.Errorf("single-key fugue should have tonal_plan 1.0, got %v", m.TonalPlanScore)
	}
}

func TestAssembleFugueNotesWithinWindow(t *testing.T) {
	opt := FugueOptions{
		Key:        pitch.Key{Tonic: pitch.A, IsMinor: true},
		Character:  subject.Restless,
		NumVoices:  3,
		TargetBars: 16,
		Seed:       99,
	}
	p := AssembleFugue(opt)
	for _, tr := range p.Tracks {
		for _, n := range tr.Notes {
			if n.EndTick() > p.TotalTicks {
				t.Errorf("note ends at %d beyond total ticks %d", n.EndTick(), p.TotalTicks)
			}
		}
	}
}
