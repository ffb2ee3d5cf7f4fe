package midiio

import (
	"io"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"

	"bachgen/tick"
)

// ReadResult is the symmetrical counterpart of WriteSMF's input: the note
// tracks, the tempo in effect at the start of the file, the time
// signature, and any "BACH:"-prefixed provenance payload.
type ReadResult struct {
	Tracks   []tick.Track
	BPM      int
	TimeSig  tick.TimeSig
	Metadata string
}

type openNote struct {
	start    int
	velocity uint8
}

// ReadSMF parses an SMF 0/1 byte stream, pairing note-on/note-off events
// into tick.Note values sorted by start tick, one tick.Track per source
// MIDI track that contains at least one note. Track order in the file
// becomes VoiceID 0, 1, 2, ... in the result, mirroring WriteSMF's layout
// of one voice per track after the metadata track.
func ReadSMF(r io.Reader) (ReadResult, error) {
	result := ReadResult{TimeSig: tick.FourFour, BPM: 120}
	haveTempo := false

	notesByTrack := map[int][]tick.Note{}
	open := map[int]map[uint8]openNote{}

	tr := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		var channel, key, velocity uint8
		var bpm float64
		var num, den uint8
		var text string

		switch {
		case te.Message.GetMetaTempo(&bpm):
			if !haveTempo {
				result.BPM = int(bpm + 0.5)
				haveTempo = true
			}
		case te.Message.GetMetaMeter(&num, &den):
			result.TimeSig = tick.TimeSig{Num: int(num), Den: int(den)}
		case te.Message.GetMetaText(&text):
			if strings.HasPrefix(text, metaPrefix) {
				result.Metadata = strings.TrimPrefix(text, metaPrefix)
			}
		case te.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
			trackOpen, ok := open[te.TrackNo]
			if !ok {
				trackOpen = map[uint8]openNote{}
				open[te.TrackNo] = trackOpen
			}
			trackOpen[key] = openNote{start: int(te.AbsTicks), velocity: velocity}
		case te.Message.GetNoteOff(&channel, &key, &velocity):
			closeNote(notesByTrack, open, te.TrackNo, key, int(te.AbsTicks))
		case te.Message.GetNoteOn(&channel, &key, &velocity) && velocity == 0:
			closeNote(notesByTrack, open, te.TrackNo, key, int(te.AbsTicks))
		}
	})
	if err := tr.Error(); err != nil {
		return ReadResult{}, err
	}

	var trackNos []int
	for tn := range notesByTrack {
		trackNos = append(trackNos, tn)
	}
	sort.Ints(trackNos)

	for voiceID, tn := range trackNos {
		notes := notesByTrack[tn]
		sort.SliceStable(notes, func(i, j int) bool { return notes[i].StartTick < notes[j].StartTick })
		result.Tracks = append(result.Tracks, tick.Track{VoiceID: voiceID, Notes: notes})
	}
	return result, nil
}

func closeNote(notesByTrack map[int][]tick.Note, open map[int]map[uint8]openNote, trackNo int, key uint8, endTick int) {
	trackOpen, ok := open[trackNo]
	if !ok {
		return
	}
	on, ok := trackOpen[key]
	if !ok {
		return
	}
	delete(trackOpen, key)
	duration := endTick - on.start
	if duration <= 0 {
		duration = 1
	}
	notesByTrack[trackNo] = append(notesByTrack[trackNo], tick.Note{
		StartTick: on.start,
		Duration:  duration,
		Pitch:     int(key),
		Velocity:  int(on.velocity),
	})
}
