package harmony

import "bachgen/pitch"

// Degree is a diatonic scale degree, I through VII (1-based in naming,
// 0-based in storage: I=0 ... VII=6).
type Degree int

const (
	I Degree = iota
	II
	III
	IV
	V
	VI
	VII
)

// Quality is a chord quality.
type Quality int

const (
	MajorQ Quality = iota
	MinorQ
	DiminishedQ
	AugmentedQ
	Dominant7Q
	Minor7Q
	MajorMajor7Q
	Diminished7Q
	HalfDiminished7Q
)

// Chord is a harmonic sonority: scale degree, quality, absolute root pitch
// class, and inversion (0 = root position).
type Chord struct {
	Degree    Degree
	Quality   Quality
	RootPitch int
	Inversion int
}

// diatonicTriadQuality gives the fixed major/minor-key quality table for a
// scale degree, before any harmonic-minor override.
func diatonicTriadQuality(isMinor bool, d Degree) Quality {
	if !isMinor {
		switch d {
		case I, IV, V:
			return MajorQ
		case II, III, VI:
			return MinorQ
		case VII:
			return DiminishedQ
		}
	}
	// natural-minor-derived qualities; V is overridden to Major by
	// QualityForDegree when harmonic-minor raised-7th is in effect.
	switch d {
	case I, IV, V:
		return MinorQ
	case III, VI, VII:
		return MajorQ
	case II:
		return DiminishedQ
	}
	return MajorQ
}

// QualityForDegree derives a chord's quality from key+mode+degree using the
// fixed table; harmonic-minor V is always Major (raised leading tone).
func QualityForDegree(k pitch.Key, d Degree) Quality {
	q := diatonicTriadQuality(k.IsMinor, d)
	if k.IsMinor && d == V {
		return MajorQ
	}
	return q
}

// RootPitchClass returns the pitch class (0-11) of a scale degree's root in
// the given key, using the harmonic-minor table for minor keys (so the
// raised 7th is available to V).
func RootPitchClass(k pitch.Key, d Degree) int {
	scale := pitch.HarmonicMinor
	if !k.IsMinor {
		scale = pitch.Major
	}
	return pitch.AbsoluteDegreeToPitch(int(d), k, scale) % 12
}

// NewChord builds a Chord for a degree in the given key, octave-4 root.
func NewChord(k pitch.Key, d Degree) Chord {
	return Chord{
		Degree:    d,
		Quality:   QualityForDegree(k, d),
		RootPitch: 60 + RootPitchClass(k, d), // octave 4 anchor (C4 = 60)
		Inversion: 0,
	}
}
