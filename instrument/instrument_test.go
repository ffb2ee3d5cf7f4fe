package instrument

import "testing"

func TestParseNameRoundTrip(t *testing.T) {
	for _, n := range []Name{Organ, Violin, Cello, Guitar, Harpsichord, Piano} {
		got, ok := ParseName(n.String())
		if !ok || got != n {
			t.Errorf("ParseName(%q) = %v, %v; want %v, true", n.String(), got, ok, n)
		}
	}
}

func TestParseNameRejectsUnknown(t *testing.T) {
	if _, ok := ParseName("Trombone"); ok {
		t.Error("expected ParseName to reject an instrument outside the six-member enum")
	}
}

func TestViolinRangeMatchesBariolageBounds(t *testing.T) {
	s := SpecFor(Violin)
	if s.LowestPitch != 55 || s.HighestPitch != 96 {
		t.Errorf("violin range = [%d, %d], want [55, 96]", s.LowestPitch, s.HighestPitch)
	}
	for _, p := range []int{55, 62, 69, 76} {
		if !s.InRange(p) {
			t.Errorf("bariolage open-string pitch %d should be in violin range", p)
		}
	}
}

func TestClampFoldsByOctave(t *testing.T) {
	s := SpecFor(Cello) // [36, 76]
	if got := s.Clamp(100); got < s.LowestPitch || got > s.HighestPitch {
		t.Errorf("Clamp(100) = %d, out of range", got)
	}
	if got := s.Clamp(10); got < s.LowestPitch || got > s.HighestPitch {
		t.Errorf("Clamp(10) = %d, out of range", got)
	}
	if got := s.Clamp(60); got != 60 {
		t.Errorf("Clamp(60) = %d, want 60 (already in range)", got)
	}
}

func TestEveryInstrumentHasAProgramNumberAndPositiveRange(t *testing.T) {
	for n := range names {
		s := SpecFor(n)
		if s.ProgramNumber > 127 {
			t.Errorf("%v: program number %d out of GM range", n, s.ProgramNumber)
		}
		if s.LowestPitch >= s.HighestPitch {
			t.Errorf("%v: range [%d, %d] is empty or inverted", n, s.LowestPitch, s.HighestPitch)
		}
	}
}
