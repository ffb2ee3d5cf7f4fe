// Package pitch provides pitch-class arithmetic, diatonic scale tables,
// and degree <-> pitch conversion for the four scale types
// fugue/Goldberg/chaconne writing needs.
package pitch

// Tonic is a pitch class 0-11, C=0.
type Tonic int

const (
	C Tonic = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var tonicNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (t Tonic) String() string {
	return tonicNames[((int(t)%12)+12)%12]
}

// Key is a tonic plus mode flag. Spelling is deferred to MIDI output; only
// pitch classes matter here.
type Key struct {
	Tonic   Tonic
	IsMinor bool
}

// Scale is one of the four fixed seven-interval tables from tonic.
type Scale int

const (
	Major Scale = iota
	NaturalMinor
	HarmonicMinor
	MelodicMinorAscending
)

// intervals lists the semitone offset of each of the 7 scale degrees from
// the tonic, degree 0 first.
var intervals = map[Scale][7]int{
	Major:                 {0, 2, 4, 5, 7, 9, 11},
	NaturalMinor:          {0, 2, 3, 5, 7, 8, 10},
	HarmonicMinor:         {0, 2, 3, 5, 7, 8, 11},
	MelodicMinorAscending: {0, 2, 3, 5, 7, 9, 11},
}

// DefaultScale returns the scale implied by a key's mode: Major for major
// keys, HarmonicMinor for minor keys (the form most fugue subjects use for
// leading-tone behavior).
func DefaultScale(k Key) Scale {
	if k.IsMinor {
		return HarmonicMinor
	}
	return Major
}

// pitchClass returns p mod 12 in [0,11].
func pitchClass(p int) int {
	pc := p % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}

// scaleClasses returns the 7 pitch classes of key+scale in scale-degree
// order, tonic first (index i is degree i).
func scaleClasses(k Key, s Scale) [7]int {
	iv := intervals[s]
	var out [7]int
	root := pitchClass(int(k.Tonic))
	for i, off := range iv {
		out[i] = pitchClass(root + off)
	}
	return out
}

// IsScaleTone reports pitch-class membership in key+scale.
func IsScaleTone(p int, k Key, s Scale) bool {
	pc := pitchClass(p)
	for _, c := range scaleClasses(k, s) {
		if c == pc {
			return true
		}
	}
	return false
}

// NearestScaleTone snaps p up or down to the closest scale member. Exact
// ties break toward the pitch's own direction from the tonic: a pitch
// lying above its nearest tonic snaps up, one lying below snaps down.
func NearestScaleTone(p int, k Key, s Scale) int {
	if IsScaleTone(p, k, s) {
		return p
	}
	offset := pitchClass(pitchClass(p) - pitchClass(int(k.Tonic)))
	preferUp := offset <= 6
	for d := 1; d <= 6; d++ {
		upOK := IsScaleTone(p+d, k, s)
		downOK := IsScaleTone(p-d, k, s)
		switch {
		case upOK && downOK:
			if preferUp {
				return p + d
			}
			return p - d
		case upOK:
			return p + d
		case downOK:
			return p - d
		}
	}
	return p
}

// PitchToScaleDegree returns the 0-based scale degree of p and whether p is
// exactly on the scale. Off-scale pitches report the degree of the nearest
// lower scale tone.
func PitchToScaleDegree(p int, k Key, s Scale) (degree int, onScale bool) {
	pc := pitchClass(p)
	classes := scaleClasses(k, s)
	for i, c := range classes {
		if c == pc {
			return i, true
		}
	}
	// nearest lower scale tone's degree
	for d := 1; d <= 11; d++ {
		lower := pitchClass(pc - d)
		for i, c := range classes {
			if c == lower {
				return i, false
			}
		}
	}
	return 0, false
}

// midiC4 is the octave-degree-0 anchor: AbsoluteDegree(C4, C-major) = 0.
// MIDI octaves begin at C, not at the tonic, so the octave component of
// AbsoluteDegree counts whole C-to-B spans relative to the span containing
// midiC4, regardless of what the key's tonic is; only the within-octave
// index (position in the key's own scale-degree order) uses the tonic.
const midiC4 = 60

// AbsoluteDegree returns p's scale degree including octave offset, such
// that C4 in C major = 0 and D5 in C major = 8.
func AbsoluteDegree(p int, k Key, s Scale) int {
	classes := scaleClasses(k, s)
	octave := floorDiv(p, 12) - floorDiv(midiC4, 12)
	pc := pitchClass(p)
	idx := -1
	for i, c := range classes {
		if c == pc {
			idx = i
			break
		}
	}
	if idx == -1 {
		// off-scale: fall back to nearest lower degree, 0 extra offset
		d, _ := PitchToScaleDegree(p, k, s)
		idx = d
	}
	return octave*7 + idx
}

// AbsoluteDegreeToPitch is the inverse of AbsoluteDegree; the result is
// always a scale tone.
func AbsoluteDegreeToPitch(absDeg int, k Key, s Scale) int {
	classes := scaleClasses(k, s)
	octave := floorDiv(absDeg, 7)
	idx := absDeg - octave*7
	if idx < 0 {
		idx += 7
		octave--
	}
	return (floorDiv(midiC4, 12)+octave)*12 + classes[idx]
}

// ClampPitch clamps p into [0,127] intersected with [low,high].
func ClampPitch(p, low, high int) int {
	if low < 0 {
		low = 0
	}
	if high > 127 {
		high = 127
	}
	if p < low {
		return low
	}
	if p > high {
		return high
	}
	return p
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// IntervalClass classifies the simple (mod-12) interval between two
// pitches into the counterpoint-relevant buckets used across the system.
type IntervalClass int

const (
	Unison IntervalClass = 0
	Fourth IntervalClass = 5
	Fifth  IntervalClass = 7
)

// SimpleInterval returns the interval between two pitches folded into one
// octave, [0,11] (order-independent: a compound 10th and a 3rd both read
// as 3 or 4). The range stays 0-11 rather than collapsing to 0-6, since
// m3 and M6 (3 and 9) must stay distinguishable for consonance
// classification.
func SimpleInterval(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d % 12
}

// IsPerfectConsonance reports P1/P5/P8 (simple interval class 0 or 7).
func IsPerfectConsonance(simpleInterval int) bool {
	return simpleInterval == 0 || simpleInterval == 7
}

// IsImperfectConsonance reports m3/M3/m6/M6 (mod-12 interval 3, 4, 8, or
// 9).
func IsImperfectConsonance(mod12Interval int) bool {
	switch mod12Interval {
	case 3, 4, 8, 9:
		return true
	default:
		return false
	}
}

// IsFourth reports a perfect fourth (mod12 interval 5).
func IsFourth(mod12Interval int) bool { return mod12Interval == 5 }

// IsHarshDissonance reports m2(1), TT(6), M7(11).
func IsHarshDissonance(mod12Interval int) bool {
	switch mod12Interval {
	case 1, 6, 11:
		return true
	default:
		return false
	}
}
