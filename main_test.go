package main

import (
	"testing"

	"bachgen/config"
	"bachgen/instrument"
	"bachgen/subject"
)

func TestParseGenerateArgsReadsAllFlags(t *testing.T) {
	g, err := parseGenerateArgs([]string{
		"--form", "Goldberg",
		"--key", "Gm",
		"--seed", "42",
		"--bpm", "80",
		"--num-voices", "3",
		"--character", "Playful",
		"--instrument", "Violin",
		"--duration-scale", "Long",
		"--target-bars", "16",
		"--out", "out/piece.mid",
		"--report", "out/report.json",
		"--no-progress",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.form != "Goldberg" || g.key != "Gm" || g.seed != "42" {
		t.Errorf("unexpected parse: %+v", g)
	}
	if !g.noProgress {
		t.Error("expected noProgress true")
	}
	if g.outPath != "out/piece.mid" || g.reportPath != "out/report.json" {
		t.Errorf("unexpected paths: %+v", g)
	}
}

func TestParseGenerateArgsRejectsUnknownFlag(t *testing.T) {
	_, err := parseGenerateArgs([]string{"--bogus", "x"})
	if err == nil {
		t.Fatal("expected error for unrecognized flag")
	}
}

func TestParseGenerateArgsRejectsMissingValue(t *testing.T) {
	_, err := parseGenerateArgs([]string{"--form"})
	if err == nil {
		t.Fatal("expected error for flag missing a value")
	}
}

func TestParseGenerateArgsRejectsBareArgument(t *testing.T) {
	_, err := parseGenerateArgs([]string{"fugue"})
	if err == nil {
		t.Fatal("expected error for a non-flag argument")
	}
}

func TestResolveConfigAppliesDefaults(t *testing.T) {
	cfg, err := resolveConfig(generateArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Form != config.Fugue {
		t.Errorf("Form = %v, want Fugue", cfg.Form)
	}
	if cfg.NumVoices != 4 {
		t.Errorf("NumVoices = %d, want 4", cfg.NumVoices)
	}
	if cfg.Character != subject.Severe {
		t.Errorf("Character = %v, want Severe", cfg.Character)
	}
	if cfg.Instrument != instrument.Organ {
		t.Errorf("Instrument = %v, want Organ", cfg.Instrument)
	}
}

func TestResolveConfigOverlaysFlags(t *testing.T) {
	cfg, err := resolveConfig(generateArgs{
		form:      "Chaconne",
		key:       "Dm",
		seed:      "7",
		numVoices: "2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Form != config.Chaconne {
		t.Errorf("Form = %v, want Chaconne", cfg.Form)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.NumVoices != 2 {
		t.Errorf("NumVoices = %d, want 2", cfg.NumVoices)
	}
}

func TestResolveConfigRejectsBadCharacter(t *testing.T) {
	_, err := resolveConfig(generateArgs{character: "Grumpy"})
	if err == nil {
		t.Fatal("expected error for unrecognized character")
	}
}

func TestResolveConfigRejectsBadSeed(t *testing.T) {
	_, err := resolveConfig(generateArgs{seed: "not-a-number"})
	if err == nil {
		t.Fatal("expected error for non-numeric seed")
	}
}

func TestBarBeatFirstTick(t *testing.T) {
	bar, beat := barBeat(0)
	if bar != 1 || beat != 1 {
		t.Errorf("barBeat(0) = (%d, %d), want (1, 1)", bar, beat)
	}
}
