package texture

import (
	"bachgen/bachrand"
	"bachgen/harmony"
	"bachgen/pitch"
	"bachgen/tick"
)

// Generate dispatches a Context to its texture kind's generator. All
// generators write to voice id 1 (textureVoiceID), respect the context's
// register and window, and are deterministic in ctx.Seed.
func Generate(ctx Context) []tick.Note {
	switch ctx.TextureKind {
	case SingleLine:
		return singleLine(ctx)
	case ImpliedPolyphony:
		return impliedPolyphony(ctx)
	case FullChords:
		return fullChords(ctx)
	case Arpeggiated:
		return arpeggiated(ctx)
	case ScalePassage:
		return scalePassage(ctx)
	case Bariolage:
		return bariolage(ctx)
	default:
		return nil
	}
}

func endOf(ctx Context) int { return ctx.StartTick + ctx.DurationTicks }

func eventAt(ctx Context, t int) harmony.Event {
	if ctx.Timeline == nil {
		k := ctx.Key
		return harmony.Event{Key: k, Chord: harmony.NewChord(k, harmony.I)}
	}
	return ctx.Timeline.GetAt(t)
}

func mkNote(t, dur, p, vel int) tick.Note {
	return tick.Note{StartTick: t, Duration: dur, Pitch: p, Velocity: vel, VoiceID: textureVoiceID, Source: tick.TextureNote}
}

// velFor brightens major-section textures slightly.
func velFor(ctx Context, base int) int {
	if ctx.IsMajorSection {
		base += 4
	}
	return base
}

// wantsFiller reports whether the context's rhythm density asks for
// between-beat filler notes. The zero value means unspecified and keeps
// the standard (dense) behavior.
func wantsFiller(ctx Context) bool {
	return ctx.RhythmDensity == 0 || ctx.RhythmDensity >= 0.5
}

// singleLine emits one chord tone per beat with 8th-note stepwise filler
// toward the next beat's chord tone.
func singleLine(ctx Context) []tick.Note {
	var notes []tick.Note
	end := endOf(ctx)
	scale := pitch.DefaultScale(ctx.Key)
	prev := (ctx.RegisterLow + ctx.RegisterHigh) / 2

	for t := ctx.StartTick; t < end; t += tick.Beat {
		remaining := end - t
		if remaining > tick.Beat {
			remaining = tick.Beat
		}
		ev := eventAt(ctx, t)
		mainPC := chordTonePitchClasses(ev.Chord)[0]
		mainPitch := nearestPitchInRegister(mainPC, ctx.RegisterLow, ctx.RegisterHigh, prev)

		mainDur := tick.Beat / 2
		if !wantsFiller(ctx) {
			mainDur = tick.Beat
		}
		if mainDur > remaining {
			mainDur = remaining
		}
		notes = append(notes, mkNote(t, mainDur, mainPitch, velFor(ctx, 70)))
		prev = mainPitch

		if remaining > mainDur {
			fillerDur := remaining - mainDur
			nextEv := eventAt(ctx, t+tick.Beat)
			nextPC := chordTonePitchClasses(nextEv.Chord)[0]
			nextTarget := nearestPitchInRegister(nextPC, ctx.RegisterLow, ctx.RegisterHigh, mainPitch)
			fillerPitch := stepToward(mainPitch, nextTarget, ctx.Key, scale)
			fillerPitch = pitch.ClampPitch(fillerPitch, ctx.RegisterLow, ctx.RegisterHigh)
			notes = append(notes, mkNote(t+mainDur, fillerDur, fillerPitch, velFor(ctx, 64)))
			prev = fillerPitch
		}
	}
	return notes
}

func stepToward(from, target int, k pitch.Key, s pitch.Scale) int {
	if target == from {
		return pitch.NearestScaleTone(from+1, k, s)
	}
	if target > from {
		return pitch.NearestScaleTone(from+1, k, s)
	}
	return pitch.NearestScaleTone(from-1, k, s)
}

// impliedPolyphony alternates between an upper and lower register half on
// each rhythmic subdivision.
func impliedPolyphony(ctx Context) []tick.Note {
	var notes []tick.Note
	end := endOf(ctx)
	mid := (ctx.RegisterLow + ctx.RegisterHigh) / 2
	upperLow, upperHigh := mid+1, ctx.RegisterHigh
	lowerLow, lowerHigh := ctx.RegisterLow, mid
	if upperLow > upperHigh {
		upperLow, upperHigh = mid, mid
	}

	subdivisions := Subdivisions(ctx.RhythmProfile)
	idx := 0
	lastUpper := upperHigh
	lastLower := lowerLow
	t := ctx.StartTick
	for t < end {
		for _, d := range subdivisions {
			if t >= end {
				break
			}
			dur := d
			if t+dur > end {
				dur = end - t
			}
			if dur <= 0 {
				break
			}
			ev := eventAt(ctx, t)
			tones := chordTonePitchClasses(ev.Chord)
			pc := tones[idx%len(tones)]
			var p int
			if idx%2 == 0 {
				p = nearestPitchInRegister(pc, upperLow, upperHigh, lastUpper)
				lastUpper = p
			} else {
				p = nearestPitchInRegister(pc, lowerLow, lowerHigh, lastLower)
				lastLower = p
			}
			notes = append(notes, mkNote(t, dur, p, velFor(ctx, 66)))
			t += dur
			idx++
		}
	}
	return notes
}

// fullChords emits grace-note-plus-sustain chord blocks but only during a
// climax window; otherwise returns no notes.
func fullChords(ctx Context) []tick.Note {
	if !ctx.IsClimax {
		return nil
	}
	var notes []tick.Note
	end := endOf(ctx)
	rng := bachrand.New(ctx.Seed).NewSub(uint32(ctx.StartTick))
	const graceDur = 60

	t := ctx.StartTick
	for t < end {
		ev := eventAt(ctx, t)
		tones := chordTonePitchClasses(ev.Chord)
		mid := (ctx.RegisterLow + ctx.RegisterHigh) / 2

		graceCount := 1
		if rng.Bool(0.5) {
			graceCount = 2
		}
		for g := 0; g < graceCount && t+graceDur <= end; g++ {
			pc := tones[g%len(tones)]
			p := nearestPitchInRegister(pc, ctx.RegisterLow, ctx.RegisterHigh, mid)
			notes = append(notes, mkNote(t, graceDur, p, 90))
			t += graceDur
		}

		sustainCount := 1
		if rng.Bool(0.5) {
			sustainCount = 2
		}
		for s := 0; s < sustainCount && t < end; s++ {
			dur := tick.Beat
			if t+dur > end {
				dur = end - t
			}
			if dur <= 0 {
				break
			}
			pc := tones[(s+1)%len(tones)]
			p := nearestPitchInRegister(pc, ctx.RegisterLow, ctx.RegisterHigh, mid)
			notes = append(notes, mkNote(t, dur, p, 95))
			t += dur
		}
	}
	return notes
}

// arpeggiated walks a 16th-note broken-chord pattern across the register.
func arpeggiated(ctx Context) []tick.Note {
	var notes []tick.Note
	end := endOf(ctx)
	step := tick.Beat / 4
	i := 0
	for t := ctx.StartTick; t < end; t += step {
		dur := step
		if t+dur > end {
			dur = end - t
		}
		if dur <= 0 {
			break
		}
		ev := eventAt(ctx, t)
		tones := chordTonePitchClasses(ev.Chord)
		patternIdx := i % len(tones)
		if ctx.VariationType%2 == 1 {
			patternIdx = len(tones) - 1 - patternIdx
		}
		pc := tones[patternIdx]
		half := ctx.RegisterLow
		if (i/len(tones))%2 == 1 {
			half = (ctx.RegisterLow + ctx.RegisterHigh) / 2
		}
		p := nearestPitchInRegister(pc, ctx.RegisterLow, ctx.RegisterHigh, half)
		notes = append(notes, mkNote(t, dur, p, velFor(ctx, 68)))
		i++
	}
	return notes
}

// scalePassage fills each beat with a 16th-note run between consecutive
// chord-tone anchors, alternating direction beat to beat.
func scalePassage(ctx Context) []tick.Note {
	var notes []tick.Note
	end := endOf(ctx)
	scale := pitch.DefaultScale(ctx.Key)
	step := tick.Beat / 4
	beatIdx := 0
	prev := (ctx.RegisterLow + ctx.RegisterHigh) / 2

	for beatStart := ctx.StartTick; beatStart < end; beatStart += tick.Beat {
		beatEnd := beatStart + tick.Beat
		if beatEnd > end {
			beatEnd = end
		}
		curEv := eventAt(ctx, beatStart)
		nextEv := eventAt(ctx, beatStart+tick.Beat)
		startPC := chordTonePitchClasses(curEv.Chord)[0]
		endPC := chordTonePitchClasses(nextEv.Chord)[0]
		startPitch := nearestPitchInRegister(startPC, ctx.RegisterLow, ctx.RegisterHigh, prev)
		endPitch := nearestPitchInRegister(endPC, ctx.RegisterLow, ctx.RegisterHigh, startPitch)

		startDeg := pitch.AbsoluteDegree(startPitch, ctx.Key, scale)
		endDeg := pitch.AbsoluteDegree(endPitch, ctx.Key, scale)
		if beatIdx%2 == 1 {
			startDeg, endDeg = endDeg, startDeg
		}

		n := 4
		for i := 0; i < n; i++ {
			t := beatStart + i*step
			if t >= beatEnd {
				break
			}
			dur := step
			if t+dur > beatEnd {
				dur = beatEnd - t
			}
			if dur <= 0 {
				break
			}
			frac := float64(i) / float64(n-1)
			deg := startDeg + int(float64(endDeg-startDeg)*frac)
			p := pitch.AbsoluteDegreeToPitch(deg, ctx.Key, scale)
			p = pitch.ClampPitch(p, ctx.RegisterLow, ctx.RegisterHigh)
			notes = append(notes, mkNote(t, dur, p, velFor(ctx, 66)))
			prev = p
		}
		beatIdx++
	}
	return notes
}

// bariolage alternates a stopped chord tone with the nearest open string
// within each beat; strong beats where stopped==open skip the alternation
// to preserve bar alignment.
func bariolage(ctx Context) []tick.Note {
	var notes []tick.Note
	end := endOf(ctx)
	mid := (ctx.RegisterLow + ctx.RegisterHigh) / 2

	for beatStart := ctx.StartTick; beatStart < end; beatStart += tick.Beat {
		beatEnd := beatStart + tick.Beat
		if beatEnd > end {
			beatEnd = end
		}
		ev := eventAt(ctx, beatStart)
		stoppedPC := chordTonePitchClasses(ev.Chord)[0]
		stopped := nearestPitchInRegister(stoppedPC, ctx.RegisterLow, ctx.RegisterHigh, mid)
		open := nearestOpenString(stopped)
		if open < ctx.RegisterLow || open > ctx.RegisterHigh {
			open = stopped
		}
		strong := tick.IsStrongBeat(tick.BarRelative(beatStart, tick.FourFour))
		same := stopped == open

		subdivisions := Subdivisions(ctx.RhythmProfile)
		idx := 0
		t := beatStart
		for _, d := range subdivisions {
			if t >= beatEnd {
				break
			}
			dur := d
			if t+dur > beatEnd {
				dur = beatEnd - t
			}
			if dur <= 0 {
				break
			}
			p := stopped
			if idx%2 == 1 && !(strong && same) {
				p = open
			}
			notes = append(notes, mkNote(t, dur, p, velFor(ctx, 64)))
			t += dur
			idx++
		}
	}
	return notes
}

func nearestOpenString(p int) int {
	best := violinOpenStrings[0]
	bestDist := absInt(p - best)
	for _, s := range violinOpenStrings[1:] {
		d := absInt(p - s)
		if d < bestDist {
			bestDist = d
			best = s
		}
	}
	return best
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
