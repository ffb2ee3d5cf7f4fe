// Package midiio renders and parses Standard MIDI Files: an SMF Type-1
// writer and a symmetrical reader over gitlab.com/gomidi/midi/v2.
//
// Pitches reaching this package are already absolute MIDI numbers produced
// by pitch.AbsoluteDegreeToPitch, which bakes the key's tonic into the
// scale-degree-to-pitch-class table at generation time. WriteSMF only
// clamps to [0,127] rather than re-applying an offset that was already
// applied once upstream (see DESIGN.md).
package midiio

import (
	"io"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"bachgen/instrument"
	"bachgen/tick"
)

// TempoChange is one tempo meta-event at a given absolute tick.
type TempoChange struct {
	Tick int
	BPM  int
}

// WriteOptions configures the metadata track and per-voice track headers.
type WriteOptions struct {
	TimeSig tick.TimeSig
	Tempo   []TempoChange // at least one entry; defaults to a single BPM at tick 0
	BPM     int           // used when Tempo is empty
	Instrument instrument.Name
	// Metadata, if non-empty, is embedded verbatim as the payload of a
	// "BACH:"-prefixed text meta-event (provenance JSON).
	Metadata string
	// TrackNames, if non-nil, names track i+1 (the track for Tracks[i])
	// with TrackNames[i]. A short slice leaves the remainder unnamed.
	TrackNames []string
}

const (
	metaTrackName = "BACH"
	metaPrefix    = "BACH:"
)

// WriteSMF renders tracks as an SMF Type-1 byte stream to w: one metadata
// track named "BACH" followed by one track per voice, in the order given.
func WriteSMF(w io.Writer, tracks []tick.Track, opt WriteOptions) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(tick.PerQuarter)

	s.Add(buildMetaTrack(opt))
	for i, t := range tracks {
		name := ""
		if i < len(opt.TrackNames) {
			name = opt.TrackNames[i]
		}
		s.Add(buildVoiceTrack(t, opt.Instrument, name))
	}

	_, err := s.WriteTo(w)
	return err
}

// WriteFile writes tracks to path as an SMF Type-1 file.
func WriteFile(path string, tracks []tick.Track, opt WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSMF(f, tracks, opt)
}

func buildMetaTrack(opt WriteOptions) smf.Track {
	ts := opt.TimeSig
	if ts.Num == 0 || ts.Den == 0 {
		ts = tick.FourFour
	}

	tempos := opt.Tempo
	if len(tempos) == 0 {
		bpm := opt.BPM
		if bpm <= 0 {
			bpm = 120
		}
		tempos = []TempoChange{{Tick: 0, BPM: bpm}}
	}
	sorted := append([]TempoChange(nil), tempos...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })

	var track smf.Track
	track.Add(0, smf.MetaMeter(uint8(ts.Num), uint8(ts.Den)))

	prev := 0
	for _, tc := range sorted {
		delta := tc.Tick - prev
		if delta < 0 {
			delta = 0
		}
		track.Add(uint32(delta), smf.MetaTempo(float64(tc.BPM)))
		prev = tc.Tick
	}

	if opt.Metadata != "" {
		track.Add(0, smf.MetaText(metaPrefix+opt.Metadata))
	}

	track.Close(0)
	return track
}

type timedEvent struct {
	tick    int
	noteOff bool // note-offs sort before note-ons at the same tick
	message midi.Message
}

func buildVoiceTrack(t tick.Track, instName instrument.Name, name string) smf.Track {
	var track smf.Track

	spec := instrument.SpecFor(instName)
	track.Add(0, midi.ProgramChange(0, spec.ProgramNumber))
	if name != "" {
		track.Add(0, smf.MetaTrackSequenceName(name))
	}

	var events []timedEvent
	for _, n := range t.Notes {
		pitch := clampMIDIPitch(n.Pitch)
		vel := clampVelocity(n.Velocity)
		events = append(events, timedEvent{tick: n.StartTick, message: midi.NoteOn(0, pitch, vel)})
		events = append(events, timedEvent{tick: n.EndTick(), noteOff: true, message: midi.NoteOff(0, pitch)})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].noteOff && !events[j].noteOff
	})

	prev := 0
	for _, ev := range events {
		delta := ev.tick - prev
		if delta < 0 {
			delta = 0
		}
		track.Add(uint32(delta), ev.message)
		prev = ev.tick
	}

	track.Close(0)
	return track
}

func clampMIDIPitch(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > 127 {
		return 127
	}
	return uint8(p)
}

func clampVelocity(v int) uint8 {
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
