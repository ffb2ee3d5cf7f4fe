package obligation

import (
	"math"

	"bachgen/pitch"
	"bachgen/tick"
)

// tensionTable is the fixed per-degree tension value used by harmonic
// impulse detection; tonic is least tense, leading-tone degree (VII) and
// subdominant-adjacent degrees carry more.
var tensionTable = [7]float64{0.1, 0.4, 0.3, 0.5, 0.6, 0.3, 0.9}

// directionTable: V/vii -> +1, ii/IV -> -1, else 0 (0-based degree index).
var directionTable = [7]int{0, -1, 0, -1, 1, 0, 1}

func harmonicImpulses(notes []tick.Note, k pitch.Key, scale pitch.Scale) []HarmonicImpulse {
	if len(notes) == 0 {
		return nil
	}
	window := 2 * beatTicks
	start := notes[0].StartTick
	end := notes[len(notes)-1].EndTick()
	var impulses []HarmonicImpulse
	for w := start; w < end; w += beatTicks {
		var hist [7]float64
		any := false
		for _, n := range notes {
			if n.StartTick < w+window && n.EndTick() > w {
				deg, onScale := pitch.PitchToScaleDegree(n.Pitch, k, scale)
				if onScale {
					hist[deg] += float64(n.Duration)
					any = true
				}
			}
		}
		if !any {
			continue
		}
		bestDeg := 0
		bestScore := -1.0
		for d := 0; d < 7; d++ {
			root := d
			third := (d + 2) % 7
			fifth := (d + 4) % 7
			score := hist[root]*3 + hist[third]*2 + hist[fifth]*2
			if score > bestScore {
				bestScore = score
				bestDeg = d
			}
		}
		total := 0.0
		for _, v := range hist {
			total += v
		}
		confidence := 0.0
		if total > 0 {
			confidence = bestScore / (total * 7)
			if confidence > 1 {
				confidence = 1
			}
		}
		impulses = append(impulses, HarmonicImpulse{
			Tick:       w,
			Degree:     bestDeg,
			Confidence: confidence,
			Direction:  directionTable[bestDeg],
			Tension:    tensionTable[bestDeg],
		})
	}
	return impulses
}

func registerArc(notes []tick.Note) RegisterArc {
	opening := notes[0].Pitch
	closing := notes[len(notes)-1].Pitch
	peak := opening
	peakIdx := 0
	for i, n := range notes {
		if n.Pitch > peak {
			peak = n.Pitch
			peakIdx = i
		}
	}
	ratio := 0.0
	if len(notes) > 1 {
		ratio = float64(peakIdx) / float64(len(notes)-1)
	}
	dir := 0
	if closing > opening {
		dir = 1
	} else if closing < opening {
		dir = -1
	}
	return RegisterArc{
		OpeningPitch:      opening,
		ClosingPitch:      closing,
		PeakPitch:         peak,
		PeakPositionRatio: ratio,
		OverallDirection:  dir,
	}
}

func accentContour(notes []tick.Note) AccentContour {
	if len(notes) == 0 {
		return AccentContour{}
	}
	start := notes[0].StartTick
	end := notes[len(notes)-1].EndTick()
	total := end - start
	if total <= 0 {
		total = 1
	}
	thirdLen := total / 3
	if thirdLen <= 0 {
		thirdLen = 1
	}
	var sums [3]float64
	weakOnsetsLong := 0
	for _, n := range notes {
		weight := float64(n.Duration) / float64(beatTicks)
		if tick.IsStrongBeat(tick.BarRelative(n.StartTick, tick.FourFour)) {
			weight *= 1.5
		} else {
			weight *= 1.0
			if n.Duration >= beatTicks {
				weakOnsetsLong++
			}
		}
		rel := n.StartTick - start
		idx := rel / thirdLen
		if idx > 2 {
			idx = 2
		}
		if idx < 0 {
			idx = 0
		}
		sums[idx] += weight
	}
	sum := sums[0] + sums[1] + sums[2]
	if sum == 0 {
		sum = 1
	}
	return AccentContour{
		Front:            sums[0] / sum,
		Mid:              sums[1] / sum,
		Tail:             sums[2] / sum,
		SyncopationRatio: float64(weakOnsetsLong) / float64(len(notes)),
	}
}

func densityMetrics(nodes []Node, notes []tick.Note) DensityMetrics {
	if len(notes) == 0 {
		return DensityMetrics{}
	}
	start := notes[0].StartTick
	end := notes[len(notes)-1].EndTick()
	const sampleRes = beatTicks / 4 // 1/16 resolution
	peak := 0
	sum := 0
	samples := 0
	gateTicks := 0
	debtTicks := 0
	for t := start; t < end; t += sampleRes {
		active := 0
		hasGate := false
		hasDebt := false
		for _, n := range nodes {
			if !n.ActiveAt(t) {
				continue
			}
			if n.IsDebt() {
				active++
				hasDebt = true
			} else {
				hasGate = true
			}
		}
		if active > peak {
			peak = active
		}
		sum += active
		samples++
		if hasDebt {
			debtTicks++
			if hasGate {
				gateTicks++
			}
		}
	}
	avg := 0.0
	if samples > 0 {
		avg = float64(sum) / float64(samples)
	}
	sync := 0.0
	if debtTicks > 0 {
		sync = float64(gateTicks) / float64(debtTicks)
	}
	return DensityMetrics{PeakDensity: peak, AvgDensity: avg, SynchronousPressure: sync}
}

// activeDebtCountAt counts active debt obligations (not gates) at tick t.
func activeDebtCountAt(nodes []Node, t int) int {
	c := 0
	for _, n := range nodes {
		if n.IsDebt() && n.ActiveAt(t) {
			c++
		}
	}
	return c
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

func geometricMeanWithFloor(dims []float64, floor float64) float64 {
	weakest := 1.0
	product := 1.0
	for _, d := range dims {
		d = clamp01(d)
		if d < weakest {
			weakest = d
		}
		product *= d
	}
	if weakest < floor {
		return weakest
	}
	// nth root of product
	n := float64(len(dims))
	if n == 0 {
		return 0
	}
	return powRoot(product, n)
}

func powRoot(x, n float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Pow(x, 1.0/n)
}

func strettoMatrix(nodes []Node, notes []tick.Note) []StrettoRecord {
	if len(notes) == 0 {
		return nil
	}
	subjectLen := notes[len(notes)-1].EndTick() - notes[0].StartTick
	opening := notes[0].StartTick
	lowest, highest := notes[0].Pitch, notes[0].Pitch
	for _, n := range notes {
		if n.Pitch < lowest {
			lowest = n.Pitch
		}
		if n.Pitch > highest {
			highest = n.Pitch
		}
	}
	rangeSemis := highest - lowest
	if rangeSemis <= 0 {
		rangeSemis = 1
	}

	const maxVoices = 5
	const halfBeat = beatTicks / 2
	minOffset := beatTicks
	maxOffset := subjectLen - beatTicks
	if maxOffset < minOffset {
		maxOffset = minOffset
	}

	baselinePeak := 0
	for t := opening; t < opening+subjectLen; t += beatTicks / 4 {
		c := activeDebtCountAt(nodes, t)
		if c > baselinePeak {
			baselinePeak = c
		}
	}

	var recs []StrettoRecord
	for offset := minOffset; offset <= maxOffset; offset += halfBeat {
		for voices := 2; voices <= maxVoices; voices++ {
			peakObligationExcess := 0.0
			for t := opening; t < opening+subjectLen; t += beatTicks / 4 {
				total := 0
				for v := 0; v < voices; v++ {
					total += activeDebtCountAt(nodes, t-v*offset)
				}
				excess := float64(total) - float64(baselinePeak*voices)
				if excess > peakObligationExcess {
					peakObligationExcess = excess
				}
			}

			verticalClash := 0.0
			clashSamples := 0
			for _, n := range notes {
				for v := 1; v < voices; v++ {
					shifted := n.StartTick + v*offset
					cell := shifted / (beatTicks / 4)
					for _, m := range notes {
						if m.StartTick/(beatTicks/4) == cell {
							verticalClash++
						}
					}
					clashSamples++
				}
			}
			if clashSamples > 0 {
				verticalClash = clamp01(verticalClash / float64(clashSamples))
			}

			rhythmicInterference := 0.0
			sampleCount := 0
			for t := opening; t < opening+subjectLen; t += beatTicks / 4 {
				accentVoices := 0
				for v := 0; v < voices; v++ {
					if hasOnsetNear(notes, t-v*offset, beatTicks/4) {
						accentVoices++
					}
				}
				if accentVoices >= 2 {
					rhythmicInterference++
				}
				sampleCount++
			}
			if sampleCount > 0 {
				rhythmicInterference /= float64(sampleCount)
			}

			registerOverlap := 0.0
			remaining := subjectLen - offset
			if remaining > 0 {
				voicesFactor := 0.5 + 0.5*float64(voices-1)/float64(maxVoices-1)
				regTerm := 12.0 / float64(rangeSemis)
				if regTerm > 1 {
					regTerm = 1
				}
				registerOverlap = clamp01(float64(remaining)/float64(subjectLen)) * regTerm * voicesFactor
			}

			perceptualOverlap := clamp01(1.0 - float64(offset)/float64(subjectLen))

			cadenceConflict := 0.0
			cadenceWindowStart := opening + subjectLen*3/4
			devHalfEnd := opening + subjectLen/2
			for v := 1; v < voices; v++ {
				shiftedDevEnd := devHalfEnd + v*offset
				if shiftedDevEnd > cadenceWindowStart && shiftedDevEnd < opening+subjectLen+v*offset {
					cadenceConflict++
				}
			}
			if voices > 1 {
				cadenceConflict = clamp01(cadenceConflict / float64(voices-1))
			}

			peakNorm := clamp01(1.0 - peakObligationExcess/float64(maxInt(1, baselinePeak*voices)))
			dims := []float64{
				peakNorm,
				1 - verticalClash,
				1 - rhythmicInterference,
				1 - registerOverlap,
				1 - perceptualOverlap,
			}
			score := geometricMeanWithFloor(dims, 0.2)
			// cadence conflict is a direct penalty on top of the floor-guarded core
			score = clamp01(score - cadenceConflict*0.2)

			recs = append(recs, StrettoRecord{
				OffsetTicks:      offset,
				Voices:           voices,
				PeakObligation:   peakObligationExcess,
				VerticalClash:    verticalClash,
				RhythmicInterf:   rhythmicInterference,
				RegisterOverlap:  registerOverlap,
				PerceptualOvlap:  perceptualOverlap,
				CadenceConflict:  cadenceConflict,
				FeasibilityScore: score,
			})
		}
	}
	return recs
}

func hasOnsetNear(notes []tick.Note, t, tolerance int) bool {
	for _, n := range notes {
		d := n.StartTick - t
		if d < 0 {
			d = -d
		}
		if d <= tolerance {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
