package texture

import (
	"bachgen/harmony"
	"bachgen/pitch"
)

// Kind selects a texture generator.
type Kind int

const (
	SingleLine Kind = iota
	ImpliedPolyphony
	FullChords
	Arpeggiated
	ScalePassage
	Bariolage
)

// violinOpenStrings are the four open-string pitches Bariolage alternates
// against.
var violinOpenStrings = []int{55, 62, 69, 76}

// Context parameterizes one texture-generation call.
type Context struct {
	TextureKind    Kind
	Key            pitch.Key
	StartTick      int
	DurationTicks  int
	RegisterLow    int
	RegisterHigh   int
	IsMajorSection bool
	IsClimax       bool
	RhythmDensity  float64
	Seed           uint32
	RhythmProfile  RhythmProfile
	VariationType  int
	Timeline       *harmony.Timeline
}

// textureVoiceID is the fixed voice id textures write to, distinct from
// the ground-bass voice.
const textureVoiceID = 1
