// Package instrument holds per-instrument constant tables: General MIDI
// program numbers, playable pitch ranges, and an octave-doubling hint. The
// instrument affects range and MIDI program only; it does not change
// generation logic.
package instrument

// Name identifies a playable instrument. The zero value is Organ, the
// default for keyboard forms (Fugue, Goldberg).
type Name int

const (
	Organ Name = iota
	Violin
	Cello
	Guitar
	Harpsichord
	Piano
)

func (n Name) String() string {
	if s, ok := names[n]; ok {
		return s
	}
	return "Unknown"
}

var names = map[Name]string{
	Organ:       "Organ",
	Violin:      "Violin",
	Cello:       "Cello",
	Guitar:      "Guitar",
	Harpsichord: "Harpsichord",
	Piano:       "Piano",
}

// ParseName maps a config string to a Name. ok is false for anything
// outside the six recognized instruments.
func ParseName(s string) (Name, bool) {
	for n, nm := range names {
		if nm == s {
			return n, true
		}
	}
	return Organ, false
}

// Spec is the fixed data for one instrument: its General MIDI program number
// (channel-0-based, per the SMF ProgramChange convention), its playable
// pitch range, and whether climactic passages may double an octave below.
type Spec struct {
	Name                Name
	ProgramNumber       uint8 // General MIDI program, 0-127
	LowestPitch         int
	HighestPitch        int
	AllowOctaveDoubling bool
}

// Specs is the fixed instrument table. Ranges are conservative playable
// spans, not the full acoustic extremes of each instrument.
var Specs = map[Name]Spec{
	Organ: {
		Name:                Organ,
		ProgramNumber:       19, // Church Organ
		LowestPitch:         36, // C2
		HighestPitch:        96, // C7
		AllowOctaveDoubling: true,
	},
	Violin: {
		Name:                Violin,
		ProgramNumber:       40, // Violin
		LowestPitch:         55, // G3
		HighestPitch:        96, // C7
		AllowOctaveDoubling: false,
	},
	Cello: {
		Name:                Cello,
		ProgramNumber:       42, // Cello
		LowestPitch:         36, // C2
		HighestPitch:        76, // E5
		AllowOctaveDoubling: false,
	},
	Guitar: {
		Name:                Guitar,
		ProgramNumber:       24, // Acoustic Guitar (nylon)
		LowestPitch:         40, // E2
		HighestPitch:        88, // E6
		AllowOctaveDoubling: false,
	},
	Harpsichord: {
		Name:                Harpsichord,
		ProgramNumber:       6, // Harpsichord
		LowestPitch:         29, // F1
		HighestPitch:        89, // F6
		AllowOctaveDoubling: true,
	},
	Piano: {
		Name:                Piano,
		ProgramNumber:       0, // Acoustic Grand Piano
		LowestPitch:         21, // A0
		HighestPitch:        108, // C8
		AllowOctaveDoubling: true,
	},
}

// SpecFor returns the fixed data for n; Organ's spec if n is out of range.
func SpecFor(n Name) Spec {
	if s, ok := Specs[n]; ok {
		return s
	}
	return Specs[Organ]
}

// Clamp folds pitch into [spec.LowestPitch, spec.HighestPitch] by octave
// transposition, falling back to a hard clamp only if no octave shift lands
// it in range (pathologically narrow instrument range vs. input pitch).
func (s Spec) Clamp(pitch int) int {
	for pitch < s.LowestPitch {
		pitch += 12
	}
	for pitch > s.HighestPitch {
		pitch -= 12
	}
	if pitch < s.LowestPitch {
		pitch = s.LowestPitch
	}
	if pitch > s.HighestPitch {
		pitch = s.HighestPitch
	}
	return pitch
}

// InRange reports whether pitch falls within the instrument's playable span.
func (s Spec) InRange(pitch int) bool {
	return pitch >= s.LowestPitch && pitch <= s.HighestPitch
}
