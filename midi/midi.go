// Package midi renders a decoded tune to a standard MIDI file, one block
// chord per timed event. This is a symbolic export, not playback.
package midi

import (
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/chartdex/model"
	"github.com/jsphweid/chartdex/tune"
)

const (
	resolution = 960
	channel    = 0
	velocity   = 90
	rootOctave = 60 // chords voiced from middle C
)

var pitchClass = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// WriteTune renders the tune's chord events into a single-track SMF.
func WriteTune(t *model.Tune, path string) error {
	chords, _, _, err := tune.Events(t)
	if err != nil {
		return err
	}

	ticks := smf.MetricTicks(resolution)
	var s smf.SMF
	s.TimeFormat = ticks

	ts := t.Metadata.TimeSignature
	bpm := t.Metadata.BPM
	if bpm == 0 {
		bpm = 120
	}

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(t.Metadata.Title))
	track.Add(0, smf.MetaMeter(uint8(ts.Numerator), uint8(ts.Denominator)))
	track.Add(0, smf.MetaTempo(float64(bpm)))

	beatTicks := ticks.Ticks4th()
	if ts.Denominator == 8 {
		beatTicks = ticks.Ticks8th()
	}

	var restDelta uint32
	for _, ev := range chords {
		durTicks := uint32(ev.Duration * float64(beatTicks))
		notes := ChordNotes(ev.Value)
		if len(notes) == 0 { // no-chord: let the gap accumulate
			restDelta += durTicks
			continue
		}
		for i, note := range notes {
			delta := uint32(0)
			if i == 0 {
				delta = restDelta
			}
			track.Add(delta, midi.NoteOn(channel, note, velocity))
		}
		for i, note := range notes {
			delta := uint32(0)
			if i == 0 {
				delta = durTicks
			}
			track.Add(delta, midi.NoteOff(channel, note))
		}
		restDelta = 0
	}
	track.Close(0)

	s.Tracks = append(s.Tracks, track)
	return errors.Wrapf(s.WriteFile(path), "could not write midi file %v", path)
}

// ChordNotes maps a chord token to the pitches of a simple voicing: root,
// third, fifth, optional sixth/seventh, optional bass below. "N" (no chord)
// maps to silence. Unrecognized tokens fall back to a major triad on the
// best-effort root, since dropping them would desync the grid.
func ChordNotes(token string) []uint8 {
	if token == "" || token == "N" {
		return nil
	}
	root, rest := splitRoot(token)
	if root == -1 {
		return nil
	}

	quality, bass := rest, ""
	if idx := strings.Index(rest, "/"); idx != -1 {
		quality, bass = rest[:idx], rest[idx+1:]
	}

	third, fifth := 4, 7
	var extra []int
	switch {
	case strings.HasPrefix(quality, "-"), strings.HasPrefix(quality, "m") && !strings.HasPrefix(quality, "maj"):
		third = 3
	case strings.HasPrefix(quality, "o"), strings.HasPrefix(quality, "dim"):
		third, fifth = 3, 6
	case strings.HasPrefix(quality, "+"), strings.HasPrefix(quality, "aug"):
		fifth = 8
	case strings.Contains(quality, "sus2"):
		third = 2
	case strings.Contains(quality, "sus"):
		third = 5
	}
	switch {
	case strings.Contains(quality, "^") || strings.Contains(quality, "maj7"):
		extra = append(extra, 11)
	case strings.Contains(quality, "7"):
		extra = append(extra, 10)
	case strings.Contains(quality, "6"):
		extra = append(extra, 9)
	}

	notes := []uint8{uint8(rootOctave + root), uint8(rootOctave + root + third), uint8(rootOctave + root + fifth)}
	for _, interval := range extra {
		notes = append(notes, uint8(rootOctave+root+interval))
	}
	if bassRoot, _ := splitRoot(bass); bassRoot != -1 {
		notes = append([]uint8{uint8(rootOctave - 12 + bassRoot)}, notes...)
	}
	return notes
}

// splitRoot peels the root (letter plus accidental) off a token, returning
// its pitch class and the remainder, or -1 when the token has no root.
func splitRoot(token string) (int, string) {
	if token == "" {
		return -1, ""
	}
	pc, ok := pitchClass[token[0]]
	if !ok {
		return -1, ""
	}
	rest := token[1:]
	for len(rest) > 0 {
		if rest[0] == '#' {
			pc++
		} else if rest[0] == 'b' {
			pc--
		} else {
			break
		}
		rest = rest[1:]
	}
	return (pc + 12) % 12, rest
}
