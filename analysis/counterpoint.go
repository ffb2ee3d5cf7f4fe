package analysis

import (
	"bachgen/pitch"
	"bachgen/tick"
)

// largeLeapSemitones mirrors the obligation analyzer's wide-leap threshold
// so counterpoint analysis flags the same leaps generation-time gating
// watches for.
const largeLeapSemitones = 8

// CounterpointResult is the post-hoc voice-leading metrics pass: parallel
// perfect consonances, voice crossings, and large leaps, summarized as a
// compliance score.
type CounterpointResult struct {
	ParallelPerfectCount    int
	VoiceCrossingCount      int
	LargeLeapCount          int
	TotalTransitionsChecked int
	ComplianceScore         float64 // fraction of checked transitions with no violation, [0,1]
}

// AnalyzeCounterpoint scans every pair of voices for parallel perfect
// consonances and voice crossings (under the convention that a lower
// VoiceID is a higher voice, see DESIGN.md Open Question 3), and every
// single voice for leaps beyond largeLeapSemitones.
func AnalyzeCounterpoint(tracks []tick.Track) CounterpointResult {
	var r CounterpointResult
	byVoice := map[int][]tick.Note{}
	for _, tr := range tracks {
		ns := append([]tick.Note(nil), tr.Notes...)
		byVoice[tr.VoiceID] = ns
	}

	for _, notes := range byVoice {
		for i := 1; i < len(notes); i++ {
			r.TotalTransitionsChecked++
			leap := notes[i].Pitch - notes[i-1].Pitch
			if leap < 0 {
				leap = -leap
			}
			if leap > largeLeapSemitones {
				r.LargeLeapCount++
			}
		}
	}

	voiceIDs := make([]int, 0, len(byVoice))
	for v := range byVoice {
		voiceIDs = append(voiceIDs, v)
	}
	for i := 0; i < len(voiceIDs); i++ {
		for j := i + 1; j < len(voiceIDs); j++ {
			va, vb := voiceIDs[i], voiceIDs[j]
			upper, lower := va, vb
			if vb < va { // lower VoiceID = higher voice
				upper, lower = vb, va
			}
			r.ParallelPerfectCount += countParallelPerfects(byVoice[upper], byVoice[lower])
			r.VoiceCrossingCount += countVoiceCrossings(byVoice[upper], byVoice[lower])
		}
	}

	violations := r.LargeLeapCount + r.ParallelPerfectCount + r.VoiceCrossingCount
	checked := r.TotalTransitionsChecked
	if checked == 0 {
		r.ComplianceScore = 1.0
	} else {
		score := 1.0 - float64(violations)/float64(checked)
		if score < 0 {
			score = 0
		}
		r.ComplianceScore = score
	}
	return r
}

// countParallelPerfects walks the tick positions where both voices have a
// note onset and flags consecutive positions that are both perfect
// consonances (P5 or P8) with the same direction of motion in both voices.
func countParallelPerfects(upper, lower []tick.Note) int {
	pairs := pairOnsets(upper, lower)
	count := 0
	for i := 1; i < len(pairs); i++ {
		prevU, prevL := pairs[i-1][0], pairs[i-1][1]
		curU, curL := pairs[i][0], pairs[i][1]
		prevSI := pitch.SimpleInterval(prevU.Pitch, prevL.Pitch)
		curSI := pitch.SimpleInterval(curU.Pitch, curL.Pitch)
		if !pitch.IsPerfectConsonance(prevSI) || !pitch.IsPerfectConsonance(curSI) {
			continue
		}
		du := curU.Pitch - prevU.Pitch
		dl := curL.Pitch - prevL.Pitch
		if du == 0 || dl == 0 {
			continue // oblique motion, not parallel
		}
		if sameSign(du, dl) {
			count++
		}
	}
	return count
}

func countVoiceCrossings(upper, lower []tick.Note) int {
	pairs := pairOnsets(upper, lower)
	count := 0
	for _, p := range pairs {
		if p[0].Pitch < p[1].Pitch {
			count++
		}
	}
	return count
}

// pairOnsets aligns upper and lower notes that share a start tick.
func pairOnsets(upper, lower []tick.Note) [][2]tick.Note {
	lowerByTick := map[int]tick.Note{}
	for _, n := range lower {
		lowerByTick[n.StartTick] = n
	}
	var out [][2]tick.Note
	for _, u := range upper {
		if l, ok := lowerByTick[u.StartTick]; ok {
			out = append(out, [2]tick.Note{u, l})
		}
	}
	return out
}

func sameSign(a, b int) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
