// Package chart splits a raw iReal URL into individual chart strings and
// pulls the header fields out of each one.
package chart

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/jsphweid/chartdex/model"
)

// urlRe matches the payload of a supported chart collection. Both the plain
// (irealbook) and scrambled (irealb) schemes appear in the wild.
var urlRe = regexp.MustCompile(`^irealb(?:ook)?://([^"]+)`)

// scramblePrefix marks a music field that has been scrambled by the app
// before export.
const scramblePrefix = "1r34LbKcu7"

// SplitCharts percent-decodes a raw URL and splits it into individual chart
// strings along the '===' separator. If the final fragment carries no '='
// it is the playlist name rather than a chart.
func SplitCharts(rawURL string) ([]string, string, error) {
	decoded, err := url.PathUnescape(rawURL)
	if err != nil {
		// tolerate stray '%' in chart bodies
		decoded = rawURL
	}
	match := urlRe.FindStringSubmatch(decoded)
	if match == nil {
		return nil, "", model.Formatf("not a valid ireal url")
	}

	var charts []string
	playlist := ""
	fragments := strings.Split(match[1], "===")
	for i, fragment := range fragments {
		if fragment == "" {
			continue
		}
		if i == len(fragments)-1 && !strings.Contains(fragment, "=") {
			playlist = strings.TrimSpace(fragment)
			break
		}
		charts = append(charts, fragment)
	}
	return charts, playlist, nil
}

// Raw is one chart with its header fields separated from the music.
type Raw struct {
	Title         string
	Composer      string
	Style         string
	Key           string
	BPM           int
	TimeSignature model.TimeSignature
	Music         string
}

var timeSigRe = regexp.MustCompile(`T(\d)(\d)`)

// Parse reads the '='-separated header of a single chart. Field layout:
// title, composer, (unused), style, key, (unused), music, then optional
// trailing fields where the first all-digit one is the tempo.
func Parse(chartString string) (*Raw, error) {
	if strings.TrimSpace(chartString) == "" {
		return nil, model.Formatf("empty chart")
	}
	parts := strings.Split(chartString, "=")
	if len(parts) < 7 {
		return nil, model.Formatf("chart header has %v fields, expected at least 7", len(parts))
	}

	music := parts[6]
	if strings.HasPrefix(music, scramblePrefix) {
		music = Unscramble(music[len(scramblePrefix):])
	}

	raw := Raw{
		Title:         strings.TrimSpace(parts[0]),
		Composer:      strings.TrimSpace(parts[1]),
		Style:         strings.TrimSpace(parts[3]),
		Key:           strings.TrimSpace(parts[4]),
		TimeSignature: readTimeSignature(music),
		Music:         music,
	}
	for _, trailing := range parts[7:] {
		trailing = strings.TrimSpace(trailing)
		if trailing == "" {
			continue
		}
		if bpm, err := strconv.Atoi(trailing); err == nil && bpm > 0 {
			raw.BPM = bpm
			break
		}
	}
	return &raw, nil
}

// readTimeSignature picks up the first inline T marker before the annotation
// stripper deletes it. T12 means 12/8 on these charts, not 1/2.
func readTimeSignature(music string) model.TimeSignature {
	match := timeSigRe.FindStringSubmatch(music)
	if match == nil {
		return model.TimeSignature{Numerator: 4, Denominator: 4}
	}
	num, _ := strconv.Atoi(match[1])
	den, _ := strconv.Atoi(match[2])
	if num == 1 && den == 2 {
		return model.TimeSignature{Numerator: 12, Denominator: 8}
	}
	return model.TimeSignature{Numerator: num, Denominator: den}
}

// Unscramble undoes the app's export scrambling: leading 50-byte blocks are
// transposed while more than 51 bytes remain, the tail is left alone. Within
// a block, bytes 0-4 swap with 49-45 and bytes 10-23 swap with 39-26.
func Unscramble(s string) string {
	var b strings.Builder
	for len(s) > 51 {
		b.WriteString(unscramble50(s[:50]))
		s = s[50:]
	}
	b.WriteString(s)
	return b.String()
}

func unscramble50(chunk string) string {
	out := []byte(chunk)
	for i := 0; i < 5; i++ {
		out[i], out[49-i] = chunk[49-i], chunk[i]
	}
	for i := 10; i < 24; i++ {
		out[i], out[49-i] = chunk[49-i], chunk[i]
	}
	return string(out)
}
