// Package config is the flat generation configuration record: enum
// parsing, range validation, a character x form compatibility table, and
// JSON load via jsonutil.
package config

import (
	"fmt"
	"os"
	"strings"

	"bachgen/instrument"
	"bachgen/jsonutil"
	"bachgen/pitch"
	"bachgen/subject"
)

// Form selects which form assembler a generation run uses.
type Form string

const (
	Fugue    Form = "Fugue"
	Goldberg Form = "Goldberg"
	Chaconne Form = "Chaconne"
)

var validForms = map[Form]bool{Fugue: true, Goldberg: true, Chaconne: true}

// DurationScale is a coarse preset for piece length, overridable by
// TargetBars for Fugue.
type DurationScale string

const (
	Short    DurationScale = "Short"
	Standard DurationScale = "Standard"
	Long     DurationScale = "Long"
	Full     DurationScale = "Full"
)

// defaultBars gives the bar count a DurationScale maps to when TargetBars
// is not set, per form. Only Fugue's entries are piece lengths (in plain
// 4/4 bars, read by TargetBarsOrDefault); Goldberg's and Chaconne's record
// the fixed bars per variation and per ground cycle.
var defaultBars = map[Form]map[DurationScale]int{
	Fugue: {
		Short: 12, Standard: 24, Long: 40, Full: 64,
	},
	Goldberg: {
		Short: 4, Standard: 4, Long: 4, Full: 4, // bars-per-variation is fixed; scale adjusts variation count instead
	},
	Chaconne: {
		Short: 2, Standard: 2, Long: 2, Full: 2, // bars-per-cycle is fixed; scale adjusts cycle count instead
	},
}

// defaultUnits gives the number of repeating units (Goldberg variations,
// chaconne cycles) a DurationScale maps to for forms whose bar-per-unit
// length is fixed.
var defaultUnits = map[Form]map[DurationScale]int{
	Goldberg: {Short: 4, Standard: 8, Long: 16, Full: 30},
	Chaconne: {Short: 6, Standard: 12, Long: 24, Full: 48},
}

// Config is the flat record one generation run is parameterized by.
type Config struct {
	Form          Form
	Key           pitch.Key
	NumVoices     int
	BPM           int
	Seed          uint32
	Character     subject.Character
	Instrument    instrument.Name
	DurationScale DurationScale
	TargetBars    int // 0 means "use DurationScale default"
}

// Error is a configuration error: invalid enum, out-of-range numeric, or
// incompatible character/form, reported before generation begins.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string { return fmt.Sprintf("config: %s: %s", e.Field, e.Msg) }

// severeForbiddenForms is the fixed character x form compatibility table.
// Chaconne, a dance-derived ground-bass form, does not admit the Severe
// character; Fugue and Goldberg both admit all four.
var severeForbiddenForms = map[Form]bool{
	Chaconne: true,
}

// Validate checks every field of the record. It returns the first
// violation found; callers wanting every violation at once should loop
// calling Validate after fixing each in turn. No generation starts on an
// invalid config.
func (c Config) Validate() error {
	if !validForms[c.Form] {
		return &Error{Field: "form", Msg: fmt.Sprintf("unrecognized form %q", c.Form)}
	}
	if c.Key.Tonic < pitch.C || c.Key.Tonic > pitch.B {
		return &Error{Field: "key", Msg: "tonic out of range"}
	}
	if c.NumVoices < 2 || c.NumVoices > 5 {
		return &Error{Field: "num_voices", Msg: fmt.Sprintf("%d outside [2, 5]", c.NumVoices)}
	}
	if c.BPM <= 0 {
		return &Error{Field: "bpm", Msg: "must be > 0"}
	}
	if c.Character < subject.Severe || c.Character > subject.Restless {
		return &Error{Field: "character", Msg: "unrecognized character"}
	}
	if _, ok := instrument.Specs[c.Instrument]; !ok {
		return &Error{Field: "instrument", Msg: "unrecognized instrument"}
	}
	switch c.DurationScale {
	case Short, Standard, Long, Full:
	default:
		return &Error{Field: "duration_scale", Msg: fmt.Sprintf("unrecognized duration_scale %q", c.DurationScale)}
	}
	if c.TargetBars < 0 {
		return &Error{Field: "target_bars", Msg: "must be non-negative"}
	}
	if c.Character == subject.Severe && severeForbiddenForms[c.Form] {
		return &Error{Field: "character", Msg: fmt.Sprintf("Severe is incompatible with %s", c.Form)}
	}
	return nil
}

// TargetBarsOrDefault resolves the bar count to generate with, honoring an
// explicit TargetBars override or falling back to the DurationScale table.
func (c Config) TargetBarsOrDefault() int {
	if c.TargetBars > 0 {
		return c.TargetBars
	}
	return defaultBars[c.Form][c.DurationScale]
}

// UnitCountOrDefault resolves the number of repeating units (Goldberg
// variations, Chaconne cycles) to generate, for forms whose per-unit bar
// length is fixed and whose DurationScale instead scales unit count. Zero
// for forms (Fugue) where DurationScale instead scales TargetBars directly.
func (c Config) UnitCountOrDefault() int {
	return defaultUnits[c.Form][c.DurationScale]
}

// Load reads a JSON config file from path and parses it with ParseJSON.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseJSON(string(data))
}

// ParseJSON decodes a flat JSON config object via jsonutil's minimal
// parser and maps its string/number fields onto Config, defaulting any
// field the object omits. It does not call Validate; callers run that as
// a distinct step after parsing.
func ParseJSON(s string) (Config, error) {
	obj, err := jsonutil.ParseFlatObject(s)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	c := Config{
		NumVoices:     4,
		BPM:           96,
		Character:     subject.Severe,
		Instrument:    instrument.Organ,
		DurationScale: Standard,
	}
	if v, ok := obj["form"].(string); ok {
		c.Form = Form(v)
	}
	if v, ok := obj["key"].(string); ok {
		k, err := ParseKey(v)
		if err != nil {
			return Config{}, err
		}
		c.Key = k
	}
	if v, ok := obj["num_voices"].(float64); ok {
		c.NumVoices = int(v)
	}
	if v, ok := obj["bpm"].(float64); ok {
		c.BPM = int(v)
	}
	if v, ok := obj["seed"].(float64); ok {
		c.Seed = uint32(int64(v))
	}
	if v, ok := obj["character"].(string); ok {
		ch, ok := ParseCharacter(v)
		if !ok {
			return Config{}, &Error{Field: "character", Msg: fmt.Sprintf("unrecognized character %q", v)}
		}
		c.Character = ch
	}
	if v, ok := obj["instrument"].(string); ok {
		in, ok := instrument.ParseName(v)
		if !ok {
			return Config{}, &Error{Field: "instrument", Msg: fmt.Sprintf("unrecognized instrument %q", v)}
		}
		c.Instrument = in
	}
	if v, ok := obj["duration_scale"].(string); ok {
		c.DurationScale = DurationScale(v)
	}
	if v, ok := obj["target_bars"].(float64); ok {
		c.TargetBars = int(v)
	}
	return c, nil
}

var characterNames = map[string]subject.Character{
	"Severe":   subject.Severe,
	"Playful":  subject.Playful,
	"Noble":    subject.Noble,
	"Restless": subject.Restless,
}

// ParseCharacter maps a config string to a subject.Character.
func ParseCharacter(s string) (subject.Character, bool) {
	c, ok := characterNames[s]
	return c, ok
}

var tonicNames = map[string]pitch.Tonic{
	"C": pitch.C, "C#": pitch.CSharp, "Db": pitch.CSharp,
	"D": pitch.D, "D#": pitch.DSharp, "Eb": pitch.DSharp,
	"E": pitch.E,
	"F": pitch.F, "F#": pitch.FSharp, "Gb": pitch.FSharp,
	"G": pitch.G, "G#": pitch.GSharp, "Ab": pitch.GSharp,
	"A": pitch.A, "A#": pitch.ASharp, "Bb": pitch.ASharp,
	"B": pitch.B,
}

// ParseKey parses a key string like "C", "C#m", "Bb", "F#m" into a
// pitch.Key: everything but a trailing "m" names the tonic, a trailing "m"
// marks the minor mode.
func ParseKey(s string) (pitch.Key, error) {
	isMinor := false
	name := s
	if strings.HasSuffix(name, "m") && name != "m" {
		isMinor = true
		name = strings.TrimSuffix(name, "m")
	}
	t, ok := tonicNames[name]
	if !ok {
		return pitch.Key{}, &Error{Field: "key", Msg: fmt.Sprintf("unrecognized key %q", s)}
	}
	return pitch.Key{Tonic: t, IsMinor: isMinor}, nil
}
