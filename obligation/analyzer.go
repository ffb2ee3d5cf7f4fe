package obligation

import (
	"bachgen/pitch"
	"bachgen/tick"
)

// HarmonicImpulse is a windowed implied-triad reading.
type HarmonicImpulse struct {
	Tick       int
	Degree     int
	Confidence float64
	Direction  int // V/vii->+1, ii/IV->-1, else 0
	Tension    float64
}

// RegisterArc is the opening/peak/closing pitch envelope.
type RegisterArc struct {
	OpeningPitch      int
	ClosingPitch      int
	PeakPitch         int
	PeakPositionRatio float64
	OverallDirection  int
}

// AccentContour is the front/mid/tail metric-weight distribution.
type AccentContour struct {
	Front, Mid, Tail float64
	SyncopationRatio float64
}

// DensityMetrics summarizes debt load over time.
type DensityMetrics struct {
	PeakDensity         int
	AvgDensity          float64
	SynchronousPressure float64
}

// StrettoRecord is one (offset,voices) cell of the feasibility matrix.
type StrettoRecord struct {
	OffsetTicks      int
	Voices           int
	PeakObligation   float64
	VerticalClash    float64
	RhythmicInterf   float64
	RegisterOverlap  float64
	PerceptualOvlap  float64
	CadenceConflict  float64
	FeasibilityScore float64
}

// Profile aggregates a subject's obligation analysis.
type Profile struct {
	Nodes              []Node
	Density            DensityMetrics
	Impulses           []HarmonicImpulse
	RegisterArc        RegisterArc
	Accent             AccentContour
	StrettoMatrix      []StrettoRecord
	nextID             int
}

func (p *Profile) add(n Node) {
	n.ID = p.nextID
	p.nextID++
	p.Nodes = append(p.Nodes, n)
}

// CountType returns the number of nodes of the given type.
func (p *Profile) CountType(t Type) int {
	c := 0
	for _, n := range p.Nodes {
		if n.Type == t {
			c++
		}
	}
	return c
}

// FeasibleFor reports whether any stretto record for the given voice count
// meets the minimum feasible composite of 0.5.
func (p *Profile) FeasibleFor(voices int) bool {
	for _, r := range p.StrettoMatrix {
		if r.Voices == voices && r.FeasibilityScore >= 0.5 {
			return true
		}
	}
	return false
}

// Analyze extracts a constraint profile from a note line, running the
// detectors in a fixed order.
func Analyze(notes []tick.Note, k pitch.Key, allowOneWideLeap bool) Profile {
	var p Profile
	if len(notes) == 0 {
		return p
	}
	scale := pitch.DefaultScale(k)
	tonicPC := int(k.Tonic) % 12

	leadingToneClass := ((tonicPC - 1) % 12 + 12) % 12

	wideLeapUsed := false

	for i, n := range notes {
		endTick := n.EndTick()

		// 1. Leading tones.
		if n.Pitch%12 == leadingToneClass {
			p.add(Node{
				Type:         LeadingTone,
				OriginTick:   n.StartTick,
				StartTick:    endTick,
				DeadlineTick: endTick + 2*beatTicks,
				Direction:    1,
				Strength:     Structural,
				RequiredIntervalSemis: 1,
			})
		}

		// 2. Sevenths: scale degree 4 (0-based index 3) treated as 7th of V.
		deg, onScale := pitch.PitchToScaleDegree(n.Pitch, k, scale)
		if onScale && deg == 3 {
			p.add(Node{
				Type:         Seventh,
				OriginTick:   n.StartTick,
				StartTick:    endTick,
				DeadlineTick: endTick + 2*beatTicks,
				Direction:    -1,
				Strength:     Soft,
				RequiredIntervalSemis: -1,
			})
		}

		// 3. Leaps >= 5 semitones.
		if i+1 < len(notes) {
			interval := notes[i+1].Pitch - n.Pitch
			abs := interval
			if abs < 0 {
				abs = -abs
			}
			if abs >= 5 {
				exempt := allowOneWideLeap && !wideLeapUsed && abs >= 8 && abs <= 9
				if exempt {
					wideLeapUsed = true
				} else {
					dir := -1
					if interval < 0 {
						dir = 1
					}
					origin := notes[i+1].StartTick
					p.add(Node{
						Type:         LeapResolve,
						OriginTick:   origin,
						StartTick:    origin,
						DeadlineTick: origin + 2*beatTicks,
						Direction:    dir,
						Strength:     Soft,
					})
				}
			}
		}

		// 4. Strong-beat gates.
		if tick.IsStrongBeat(tick.BarRelative(n.StartTick, tick.FourFour)) {
			p.add(Node{
				Type:              StrongBeatHarm,
				OriginTick:        n.StartTick,
				StartTick:         n.StartTick,
				DeadlineTick:      n.StartTick,
				Strength:          Structural,
				RequireStrongBeat: true,
			})
		}
	}

	last := notes[len(notes)-1]
	barLen := tick.PerBar(tick.FourFour)
	lastBarStart := (last.StartTick / barLen) * barLen

	// 5. Cadence stability.
	finalDeg, finalOnScale := pitch.PitchToScaleDegree(last.Pitch, k, scale)
	if !(finalOnScale && (finalDeg == 0 || finalDeg == 4)) {
		p.add(Node{
			Type:         CadenceStable,
			OriginTick:   last.StartTick,
			StartTick:    lastBarStart,
			DeadlineTick: last.EndTick(),
			Strength:     Soft,
		})
	}

	// 6. Cadence approach over the final up-to-4 notes.
	approachStart := len(notes) - 4
	if approachStart < 0 {
		approachStart = 0
	}
	approach := notes[approachStart:]
	stepwise := false
	for i := 1; i < len(approach); i++ {
		d := approach[i].Pitch - approach[i-1].Pitch
		if d < 0 {
			d = -d
		}
		if d == 1 || d == 2 {
			stepwise = true
		}
	}
	strength := Structural
	if stepwise {
		strength = Soft
	}
	p.add(Node{
		Type:         CadenceApproach,
		OriginTick:   approach[0].StartTick,
		StartTick:    approach[0].StartTick,
		DeadlineTick: last.EndTick(),
		Strength:     strength,
	})

	// 7. Harmonic impulses: sliding 2-beat windows.
	p.Impulses = harmonicImpulses(notes, k, scale)

	// 8. Register arc.
	p.RegisterArc = registerArc(notes)

	// 9. Accent contour.
	p.Accent = accentContour(notes)

	// 10. Density metrics.
	p.Density = densityMetrics(p.Nodes, notes)

	// 11. Stretto feasibility matrix.
	p.StrettoMatrix = strettoMatrix(p.Nodes, notes)

	return p
}
