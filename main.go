package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bachgen/analysis"
	"bachgen/cli"
	"bachgen/config"
	"bachgen/forms"
	"bachgen/instrument"
	"bachgen/midiio"
	"bachgen/pitch"
	"bachgen/report"
	"bachgen/subject"
	"bachgen/tick"
)

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "generate":
		generateCmd(args[1:])
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("bach - J. S. Bach-style symbolic music generator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  bach generate --form <f> --key <k> --seed <s> [flags]")
	fmt.Println("  bach generate --config <file.json> [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --form <name>             Fugue, Goldberg, or Chaconne")
	fmt.Println("  --key <name>              e.g. C, G#m, Bb")
	fmt.Println("  --seed <n>                32-bit generation seed")
	fmt.Println("  --bpm <n>                 tempo in beats per minute")
	fmt.Println("  --num-voices <n>          voice count, 2-5")
	fmt.Println("  --character <name>        Severe, Playful, Noble, Restless")
	fmt.Println("  --instrument <name>       Organ, Violin, Cello, Guitar, Harpsichord, Piano")
	fmt.Println("  --duration-scale <name>   Short, Standard, Long, Full")
	fmt.Println("  --target-bars <n>         override the duration scale's bar count (Fugue only)")
	fmt.Println("  --config <file.json>      load every flag above from a JSON file")
	fmt.Println("  --out <file.mid>          output MIDI path (default: <form>.mid)")
	fmt.Println("  --report <file.json>      also write the analysis report as JSON")
	fmt.Println("  --no-progress             skip the interactive progress display")
}

// generateArgs is the raw --flag set for the generate subcommand, string
// typed until resolveConfig parses and overlays it onto a config.Config.
type generateArgs struct {
	configPath    string
	form          string
	key           string
	seed          string
	bpm           string
	numVoices     string
	character     string
	instrumentStr string
	durationScale string
	targetBars    string
	outPath       string
	reportPath    string
	noProgress    bool
}

func parseGenerateArgs(args []string) (generateArgs, error) {
	var g generateArgs
	for i := 0; i < len(args); i++ {
		arg := args[i]
		takeValue := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", arg)
			}
			i++
			return args[i], nil
		}
		var err error
		switch arg {
		case "--config":
			g.configPath, err = takeValue()
		case "--form":
			g.form, err = takeValue()
		case "--key":
			g.key, err = takeValue()
		case "--seed":
			g.seed, err = takeValue()
		case "--bpm":
			g.bpm, err = takeValue()
		case "--num-voices":
			g.numVoices, err = takeValue()
		case "--character":
			g.character, err = takeValue()
		case "--instrument":
			g.instrumentStr, err = takeValue()
		case "--duration-scale":
			g.durationScale, err = takeValue()
		case "--target-bars":
			g.targetBars, err = takeValue()
		case "--out":
			g.outPath, err = takeValue()
		case "--report":
			g.reportPath, err = takeValue()
		case "--no-progress":
			g.noProgress = true
		default:
			if strings.HasPrefix(arg, "--") {
				err = fmt.Errorf("unrecognized flag %s", arg)
			} else {
				err = fmt.Errorf("unexpected argument %q", arg)
			}
		}
		if err != nil {
			return generateArgs{}, err
		}
	}
	return g, nil
}

func generateCmd(args []string) {
	g, err := parseGenerateArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	cfg, err := resolveConfig(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outPath := g.outPath
	if outPath == "" {
		outPath = strings.ToLower(string(cfg.Form)) + ".mid"
	}

	pipeline := func(advance func(cli.Phase)) cli.DoneMsg {
		if err := cfg.Validate(); err != nil {
			return cli.DoneMsg{Err: err}
		}
		advance(cli.PhaseValidateConfig)

		piece := assemble(cfg)
		advance(cli.PhaseGenerateVoices)

		analysisReport := analysis.Run(piece.Tracks, string(cfg.Form), cfg.NumVoices, piece.Timeline, cfg.Key, nil, analysis.PrimaryWinsLeftEdge)
		diag := diagnosticsToReport(piece)
		advance(cli.PhaseRunAnalysis)

		if err := writeMIDI(piece, cfg, outPath); err != nil {
			return cli.DoneMsg{Err: err}
		}
		if g.reportPath != "" {
			combined := diag.ToJSON() + "\n" + analysisReport.ToJSON(string(cfg.Form), cfg.NumVoices)
			if cfg.Form == config.Fugue {
				combined += "\n" + forms.FugueMetricsFor(piece, cfg.Key).ToJSON()
			}
			if err := os.WriteFile(g.reportPath, []byte(combined), 0644); err != nil {
				return cli.DoneMsg{Err: fmt.Errorf("write report: %w", err)}
			}
		}
		advance(cli.PhaseWriteMIDI)

		return cli.DoneMsg{
			Report:    &analysisReport,
			Form:      string(cfg.Form),
			NumVoices: cfg.NumVoices,
			OutPath:   outPath,
		}
	}

	var done cli.DoneMsg
	if g.noProgress || !isTerminal() {
		done = pipeline(func(cli.Phase) {})
	} else {
		done, err = cli.Run(pipeline)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if done.Err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", done.Err)
		os.Exit(1)
	}
	if g.noProgress || !isTerminal() {
		fmt.Printf("wrote %s\n", outPath)
		if done.Report != nil {
			fmt.Println(done.Report.ToTextSummary(done.Form, done.NumVoices))
		}
	}
	if done.Report != nil && !done.Report.OverallPass {
		os.Exit(1)
	}
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// resolveConfig builds a config.Config, starting from --config (if given)
// or a baked-in default, then overlaying any individually-set flags.
func resolveConfig(g generateArgs) (config.Config, error) {
	cfg := config.Config{
		Form:          config.Fugue,
		NumVoices:     4,
		BPM:           96,
		Character:     subject.Severe,
		Instrument:    instrument.Organ,
		DurationScale: config.Standard,
	}
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if g.form != "" {
		cfg.Form = config.Form(g.form)
	}
	if g.key != "" {
		k, err := config.ParseKey(g.key)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Key = k
	}
	if g.seed != "" {
		n, err := strconv.ParseUint(g.seed, 10, 32)
		if err != nil {
			return config.Config{}, fmt.Errorf("--seed: %w", err)
		}
		cfg.Seed = uint32(n)
	}
	if g.bpm != "" {
		n, err := strconv.Atoi(g.bpm)
		if err != nil {
			return config.Config{}, fmt.Errorf("--bpm: %w", err)
		}
		cfg.BPM = n
	}
	if g.numVoices != "" {
		n, err := strconv.Atoi(g.numVoices)
		if err != nil {
			return config.Config{}, fmt.Errorf("--num-voices: %w", err)
		}
		cfg.NumVoices = n
	}
	if g.character != "" {
		ch, ok := config.ParseCharacter(g.character)
		if !ok {
			return config.Config{}, fmt.Errorf("--character: unrecognized %q", g.character)
		}
		cfg.Character = ch
	}
	if g.instrumentStr != "" {
		in, ok := instrument.ParseName(g.instrumentStr)
		if !ok {
			return config.Config{}, fmt.Errorf("--instrument: unrecognized %q", g.instrumentStr)
		}
		cfg.Instrument = in
	}
	if g.durationScale != "" {
		cfg.DurationScale = config.DurationScale(g.durationScale)
	}
	if g.targetBars != "" {
		n, err := strconv.Atoi(g.targetBars)
		if err != nil {
			return config.Config{}, fmt.Errorf("--target-bars: %w", err)
		}
		cfg.TargetBars = n
	}
	return cfg, nil
}

func assemble(cfg config.Config) forms.Piece {
	switch cfg.Form {
	case config.Goldberg:
		return forms.AssembleGoldberg(forms.GoldbergOptions{
			Key:              cfg.Key,
			Character:        cfg.Character,
			NumVariations:    cfg.UnitCountOrDefault(),
			BarsPerVariation: 4,
			Seed:             cfg.Seed,
			CrossRel:         true,
		})
	case config.Chaconne:
		return forms.AssembleChaconne(forms.ChaconneOptions{
			Key:          cfg.Key,
			NumCycles:    cfg.UnitCountOrDefault(),
			BarsPerCycle: 2,
			NumVoices:    cfg.NumVoices - 1, // ground bass plus NumVoices-1 upper voices
			Seed:         cfg.Seed,
			CrossRel:     true,
		})
	default:
		return forms.AssembleFugue(forms.FugueOptions{
			Key:        cfg.Key,
			Character:  cfg.Character,
			NumVoices:  cfg.NumVoices,
			TargetBars: cfg.TargetBarsOrDefault(),
			Seed:       cfg.Seed,
			CrossRel:   true,
		})
	}
}

func diagnosticsToReport(piece forms.Piece) report.Report {
	var r report.Report
	for _, d := range piece.Diagnostics {
		bar, beat := barBeat(d.Tick)
		r.AddIssue(report.Issue{
			Kind:        report.Musical,
			Severity:    report.Info,
			Bar:         bar,
			Beat:        beat,
			VoiceA:      d.Voice,
			RuleName:    "coordinator_drop",
			Description: d.Reason,
		})
	}
	return r
}

func barBeat(t int) (bar, beat int) {
	barLen := tick.PerBar(tick.FourFour)
	bar = t/barLen + 1
	rel := tick.BarRelative(t, tick.FourFour)
	beat = rel/tick.Beat + 1
	return bar, beat
}

func metadataJSON(cfg config.Config) string {
	return fmt.Sprintf(`{"form":%q,"key":%q,"seed":%d,"num_voices":%d}`,
		cfg.Form, keyName(cfg.Key), cfg.Seed, cfg.NumVoices)
}

func keyName(k pitch.Key) string {
	s := k.Tonic.String()
	if k.IsMinor {
		s += "m"
	}
	return s
}

func writeMIDI(piece forms.Piece, cfg config.Config, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	opt := midiio.WriteOptions{
		TimeSig:    tick.FourFour,
		BPM:        cfg.BPM,
		Instrument: cfg.Instrument,
		Metadata:   metadataJSON(cfg),
	}
	return midiio.WriteFile(outPath, clampToInstrument(piece.Tracks, cfg.Instrument), opt)
}

// clampToInstrument octave-folds every pitch into the instrument's
// playable span. The instrument affects range and MIDI program only, never
// generation logic.
func clampToInstrument(tracks []tick.Track, name instrument.Name) []tick.Track {
	spec := instrument.SpecFor(name)
	out := make([]tick.Track, len(tracks))
	for i, tr := range tracks {
		out[i] = tick.Track{VoiceID: tr.VoiceID, Notes: make([]tick.Note, len(tr.Notes))}
		for j, n := range tr.Notes {
			n.Pitch = spec.Clamp(n.Pitch)
			out[i].Notes[j] = n
		}
	}
	return out
}
