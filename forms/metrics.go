package forms

import (
	"bachgen/pitch"
	"bachgen/report"
	"bachgen/tick"
)

// FugueMetricsFor scores a finished fugue's structural properties from its
// placed notes and timeline: how faithfully the answer entries track the
// subject, whether every voice entered during the exposition, how much of
// the texture derives from the subject material, and how stable the tonal
// plan stayed.
func FugueMetricsFor(p Piece, key pitch.Key) report.FugueMetrics {
	scale := pitch.DefaultScale(key)

	subjectNotes := notesBySource(p.Tracks, tick.FugueSubject)
	answerNotes := notesBySource(p.Tracks, tick.FugueAnswer)

	var m report.FugueMetrics
	m.AnswerAccuracyScore = intervalAgreement(firstVoiceLine(subjectNotes), firstVoiceLine(answerNotes))
	m.ExpositionCompletenessScore = voiceCoverage(p.Tracks, tick.FugueSubject, tick.FugueAnswer)
	m.EpisodeMotifUsageRate = voiceCoverage(p.Tracks, tick.EpisodeMaterial)

	homeEvents, totalEvents := 0, 0
	for _, e := range p.Timeline.Events() {
		totalEvents++
		if e.Key.Tonic == key.Tonic && e.Key.IsMinor == key.IsMinor {
			homeEvents++
		}
	}
	if totalEvents > 0 {
		m.TonalPlanScore = float64(homeEvents) / float64(totalEvents)
	}

	if totalEvents > 0 {
		final := p.Timeline.GetAt(p.TotalTicks - 1)
		switch {
		case final.Chord.Degree == 0: // I
			m.CadenceDetectionRate = 1.0
		case final.Chord.Degree == 4: // V
			m.CadenceDetectionRate = 0.5
		}
	}

	allCount, motivic, diatonic := 0, 0, 0
	for _, tr := range p.Tracks {
		for _, n := range tr.Notes {
			allCount++
			if n.Source == tick.FugueSubject || n.Source == tick.FugueAnswer {
				motivic++
			}
			if pitch.IsScaleTone(n.Pitch, key, scale) {
				diatonic++
			}
		}
	}
	if allCount > 0 {
		m.MotivicUnityScore = float64(motivic) / float64(allCount)
		m.TonalConsistencyScore = float64(diatonic) / float64(allCount)
	}
	return m
}

func notesBySource(tracks []tick.Track, src tick.Source) []tick.Note {
	var out []tick.Note
	for _, tr := range tracks {
		for _, n := range tr.Notes {
			if n.Source == src {
				out = append(out, n)
			}
		}
	}
	return out
}

// firstVoiceLine extracts the notes of the lowest-numbered voice present,
// in start-tick order (tracks are already sorted).
func firstVoiceLine(notes []tick.Note) []tick.Note {
	if len(notes) == 0 {
		return nil
	}
	voice := notes[0].VoiceID
	for _, n := range notes {
		if n.VoiceID < voice {
			voice = n.VoiceID
		}
	}
	var out []tick.Note
	for _, n := range notes {
		if n.VoiceID == voice {
			out = append(out, n)
		}
	}
	return out
}

// intervalAgreement measures the fraction of directed melodic intervals
// shared between two lines, compared position by position over their
// common prefix. A tonal answer mutates a few intervals at the head, so a
// good answer scores high but rarely 1.0.
func intervalAgreement(a, b []tick.Note) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < 2 {
		return 0
	}
	match := 0
	for i := 1; i < n; i++ {
		da := a[i].Pitch - a[i-1].Pitch
		db := b[i].Pitch - b[i-1].Pitch
		if da == db {
			match++
		}
	}
	return float64(match) / float64(n-1)
}

// voiceCoverage is the fraction of voices carrying at least one note from
// any of the given sources.
func voiceCoverage(tracks []tick.Track, sources ...tick.Source) float64 {
	if len(tracks) == 0 {
		return 0
	}
	covered := 0
	for _, tr := range tracks {
		for _, n := range tr.Notes {
			if sourceIn(n.Source, sources) {
				covered++
				break
			}
		}
	}
	return float64(covered) / float64(len(tracks))
}

func sourceIn(s tick.Source, set []tick.Source) bool {
	for _, c := range set {
		if s == c {
			return true
		}
	}
	return false
}
