package config

import (
	"testing"

	"bachgen/instrument"
	"bachgen/pitch"
	"bachgen/subject"
)

func validConfig() Config {
	return Config{
		Form:          Fugue,
		Key:           pitch.Key{Tonic: pitch.G, IsMinor: true},
		NumVoices:     4,
		BPM:           96,
		Seed:          100,
		Character:     subject.Restless,
		Instrument:    instrument.Organ,
		DurationScale: Standard,
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsOutOfRangeVoices(t *testing.T) {
	c := validConfig()
	c.NumVoices = 1
	if err := c.Validate(); err == nil {
		t.Error("expected error for num_voices=1")
	}
	c.NumVoices = 6
	if err := c.Validate(); err == nil {
		t.Error("expected error for num_voices=6")
	}
}

func TestValidateRejectsNonPositiveBPM(t *testing.T) {
	c := validConfig()
	c.BPM = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for bpm=0")
	}
}

func TestValidateRejectsUnrecognizedForm(t *testing.T) {
	c := validConfig()
	c.Form = "Toccata"
	if err := c.Validate(); err == nil {
		t.Error("expected error for unrecognized form")
	}
}

func TestValidateRejectsSevereChaconne(t *testing.T) {
	c := validConfig()
	c.Form = Chaconne
	c.Character = subject.Severe
	err := c.Validate()
	if err == nil {
		t.Fatal("expected incompatibility error for Severe Chaconne")
	}
}

func TestValidateAllowsSevereFugue(t *testing.T) {
	c := validConfig()
	c.Form = Fugue
	c.Character = subject.Severe
	if err := c.Validate(); err != nil {
		t.Errorf("Severe should be compatible with Fugue: %v", err)
	}
}

func TestParseKeySharpFlatMinor(t *testing.T) {
	cases := map[string]pitch.Key{
		"C":   {Tonic: pitch.C, IsMinor: false},
		"C#":  {Tonic: pitch.CSharp, IsMinor: false},
		"Bb":  {Tonic: pitch.ASharp, IsMinor: false},
		"F#m": {Tonic: pitch.FSharp, IsMinor: true},
		"Dm":  {Tonic: pitch.D, IsMinor: true},
	}
	for s, want := range cases {
		got, err := ParseKey(s)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("ParseKey(%q) = %+v, want %+v", s, got, want)
		}
	}
}

func TestParseKeyRejectsUnknown(t *testing.T) {
	if _, err := ParseKey("H"); err == nil {
		t.Error("expected error for unrecognized tonic letter")
	}
}

func TestParseJSONDefaultsAndOverrides(t *testing.T) {
	c, err := ParseJSON(`{"form":"Goldberg","key":"Gm","seed":42,"character":"Noble"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Form != Goldberg {
		t.Errorf("form = %v", c.Form)
	}
	if c.Key.Tonic != pitch.G || !c.Key.IsMinor {
		t.Errorf("key = %+v", c.Key)
	}
	if c.Seed != 42 {
		t.Errorf("seed = %d", c.Seed)
	}
	if c.Character != subject.Noble {
		t.Errorf("character = %v", c.Character)
	}
	if c.NumVoices != 4 || c.BPM != 96 || c.Instrument != instrument.Organ || c.DurationScale != Standard {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestParseJSONRejectsBadCharacter(t *testing.T) {
	if _, err := ParseJSON(`{"character":"Moody"}`); err == nil {
		t.Error("expected error for unrecognized character")
	}
}

func TestParseJSONRejectsBadInstrument(t *testing.T) {
	if _, err := ParseJSON(`{"instrument":"Kazoo"}`); err == nil {
		t.Error("expected error for unrecognized instrument")
	}
}

func TestTargetBarsOrDefaultHonorsOverride(t *testing.T) {
	c := validConfig()
	c.TargetBars = 17
	if got := c.TargetBarsOrDefault(); got != 17 {
		t.Errorf("got %d, want override 17", got)
	}
}

func TestTargetBarsOrDefaultFallsBackToScale(t *testing.T) {
	c := validConfig()
	c.DurationScale = Long
	if got := c.TargetBarsOrDefault(); got != defaultBars[Fugue][Long] {
		t.Errorf("got %d, want %d", got, defaultBars[Fugue][Long])
	}
}

func TestUnitCountOrDefaultForGoldberg(t *testing.T) {
	c := validConfig()
	c.Form = Goldberg
	c.DurationScale = Full
	if got := c.UnitCountOrDefault(); got != defaultUnits[Goldberg][Full] {
		t.Errorf("got %d, want %d", got, defaultUnits[Goldberg][Full])
	}
}
