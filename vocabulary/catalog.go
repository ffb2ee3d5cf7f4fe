package vocabulary

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed data/figures.yaml
var catalogYAML []byte

type rawDegreeInterval struct {
	DegreeDiff   int `yaml:"degree_diff"`
	ChromaOffset int `yaml:"chroma_offset"`
}

type rawFigure struct {
	Name               string              `yaml:"name"`
	Mode               string              `yaml:"mode"`
	AllowTransposition bool                `yaml:"allow_transposition"`
	SemitoneIntervals  []int               `yaml:"semitone_intervals"`
	DegreeIntervals    []rawDegreeInterval `yaml:"degree_intervals"`
}

type rawRhythmCell struct {
	Name          string    `yaml:"name"`
	DurationRatio []float64 `yaml:"duration_ratio"`
}

type rawVoiceProfile struct {
	Name      string  `yaml:"name"`
	StepRatio float64 `yaml:"step_ratio"`
	LeapRatio float64 `yaml:"leap_ratio"`
}

type rawCatalog struct {
	Figures       []rawFigure       `yaml:"figures"`
	RhythmCells   []rawRhythmCell   `yaml:"rhythm_cells"`
	VoiceProfiles []rawVoiceProfile `yaml:"voice_profiles"`
}

// Figures, RhythmCells, and VoiceProfiles are the process-wide read-only
// vocabulary tables, parsed once at init from the embedded YAML asset.
var (
	Figures       []Figure
	RhythmCells   []RhythmCell
	VoiceProfiles []VoiceProfile
	ByName        map[string]int
)

func init() {
	var raw rawCatalog
	if err := yaml.Unmarshal(catalogYAML, &raw); err != nil {
		panic("vocabulary: failed to parse embedded catalog: " + err.Error())
	}
	ByName = make(map[string]int, len(raw.Figures))
	for i, rf := range raw.Figures {
		f := Figure{
			Name:               rf.Name,
			AllowTransposition: rf.AllowTransposition,
			SemitoneIntervals:  rf.SemitoneIntervals,
		}
		if rf.Mode == "degree" {
			f.Mode = DegreeMode
			for _, d := range rf.DegreeIntervals {
				f.DegreeIntervals = append(f.DegreeIntervals, DegreeInterval{
					DegreeDiff:   d.DegreeDiff,
					ChromaOffset: d.ChromaOffset,
				})
			}
		} else {
			f.Mode = Semitone
		}
		Figures = append(Figures, f)
		ByName[f.Name] = i
	}
	for _, rc := range raw.RhythmCells {
		RhythmCells = append(RhythmCells, RhythmCell{Name: rc.Name, DurationRatio: rc.DurationRatio})
	}
	for _, vp := range raw.VoiceProfiles {
		VoiceProfiles = append(VoiceProfiles, VoiceProfile{Name: vp.Name, StepRatio: vp.StepRatio, LeapRatio: vp.LeapRatio})
	}
}
