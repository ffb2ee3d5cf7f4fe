package analysis

import (
	"fmt"

	"bachgen/harmony"
	"bachgen/jsonutil"
	"bachgen/pitch"
	"bachgen/tick"
)

// System is which generation family a form belongs to for analysis
// routing (analysis_runner.h's AnalysisSystem).
type System int

const (
	Organ System = iota
	SoloString
)

// SystemForForm routes Fugue/Goldberg to the keyboard (Organ) analysis
// system and Chaconne, the single-line-with-ground form, to SoloString.
func SystemForForm(form string) System {
	if form == "Chaconne" {
		return SoloString
	}
	return Organ
}

// Report is the unified analysis result combining counterpoint metrics
// and a dissonance pass (analysis_runner.h's AnalysisReport).
type Report struct {
	HasCounterpoint bool
	Counterpoint    CounterpointResult
	Dissonance      Result
	OverallPass     bool // no High-severity dissonance and compliance > 0.8
}

func allNotes(tracks []tick.Track) []tick.Note {
	var out []tick.Note
	for _, tr := range tracks {
		out = append(out, tr.Notes...)
	}
	return out
}

// Run executes the appropriate analysis pipeline for a set of generated
// tracks, routed by form (analysis_runner.h's runAnalysis).
func Run(tracks []tick.Track, form string, numVoices int, timeline *harmony.Timeline, key pitch.Key, genTimeline *harmony.Timeline, mode DualTimelineMode) Report {
	notes := allNotes(tracks)
	sys := SystemForForm(form)

	var diss Result
	switch sys {
	case Organ:
		diss = AnalyzeOrganDissonance(notes, numVoices, timeline, key, genTimeline, mode)
	case SoloString:
		diss = AnalyzeSoloStringDissonance(notes, timeline, key)
	}

	cp := AnalyzeCounterpoint(tracks)

	pass := diss.Summary.HighCount == 0 && cp.ComplianceScore > 0.8
	return Report{
		HasCounterpoint: true,
		Counterpoint:    cp,
		Dissonance:      diss,
		OverallPass:     pass,
	}
}

func (r Report) systemName(form string) string {
	if SystemForForm(form) == Organ {
		return "Organ"
	}
	return "SoloString"
}

// ToTextSummary renders a short human-readable multi-line summary.
func (r Report) ToTextSummary(form string, numVoices int) string {
	s := r.Dissonance.ToTextSummary(r.systemName(form), numVoices)
	status := "PASS"
	if !r.OverallPass {
		status = "FAIL"
	}
	return fmt.Sprintf("%s\ncounterpoint: %d parallel perfects, %d crossings, %d large leaps, compliance %.3f\noverall: %s",
		s, r.Counterpoint.ParallelPerfectCount, r.Counterpoint.VoiceCrossingCount,
		r.Counterpoint.LargeLeapCount, r.Counterpoint.ComplianceScore, status)
}

// ToJSON renders the full report (counterpoint + dissonance + verdict) as
// pretty-printed JSON.
func (r Report) ToJSON(form string, numVoices int) string {
	w := jsonutil.NewWriter("  ")
	w.BeginObject()
	w.Key("form")
	w.String(form)
	w.Key("system")
	w.String(r.systemName(form))
	w.Key("num_voices")
	w.Int(numVoices)
	w.Key("overall_pass")
	w.Bool(r.OverallPass)

	w.Key("counterpoint")
	w.BeginObject()
	w.Key("parallel_perfect_count")
	w.Int(r.Counterpoint.ParallelPerfectCount)
	w.Key("voice_crossing_count")
	w.Int(r.Counterpoint.VoiceCrossingCount)
	w.Key("large_leap_count")
	w.Int(r.Counterpoint.LargeLeapCount)
	w.Key("total_transitions_checked")
	w.Int(r.Counterpoint.TotalTransitionsChecked)
	w.Key("compliance_score")
	w.Float(r.Counterpoint.ComplianceScore)
	w.EndObject()

	w.Key("dissonance")
	writeDissonanceObject(w, r.Dissonance)
	w.EndObject()

	return w.ToString()
}

// writeDissonanceObject writes a Result's summary+events object into an
// already-open writer, the same shape Result.ToJSON produces standalone,
// so Report.ToJSON can nest it as one member instead of splicing strings.
func writeDissonanceObject(w *jsonutil.Writer, r Result) {
	w.BeginObject()
	s := r.Summary
	w.Key("summary")
	w.BeginObject()
	w.Key("total")
	w.Int(s.Total)
	w.Key("high_count")
	w.Int(s.HighCount)
	w.Key("medium_count")
	w.Int(s.MediumCount)
	w.Key("low_count")
	w.Int(s.LowCount)
	w.Key("simultaneous_clash_count")
	w.Int(s.SimultaneousClashCount)
	w.Key("non_chord_tone_count")
	w.Int(s.NonChordToneCount)
	w.Key("sustained_over_chord_change_count")
	w.Int(s.SustainedOverChordChangeCount)
	w.Key("non_diatonic_note_count")
	w.Int(s.NonDiatonicNoteCount)
	w.Key("density_per_beat")
	w.Float(s.DensityPerBeat)
	w.Key("weighted_density_per_beat")
	w.Float(s.WeightedDensityPerBeat)
	w.EndObject()

	w.Key("events")
	w.BeginArray()
	for _, e := range r.Events {
		w.BeginObject()
		w.Key("type")
		w.String(e.Type.String())
		w.Key("severity")
		w.String(e.Severity.String())
		w.Key("tick")
		w.Int(e.Tick)
		w.Key("bar")
		w.Int(e.Bar)
		w.Key("beat")
		w.Int(e.Beat)
		w.Key("pitch")
		w.Int(e.Pitch)
		w.Key("other_pitch")
		w.Int(e.OtherPitch)
		w.Key("voice_a")
		w.Int(e.VoiceA)
		w.Key("voice_b")
		w.Int(e.VoiceB)
		w.Key("interval")
		w.Int(e.Interval)
		w.Key("description")
		w.String(e.Description)
		w.EndObject()
	}
	w.EndArray()
	w.EndObject()
}
