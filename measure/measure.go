// Package measure splits a linearized chord string into bar-delimited
// measures and resolves measure-level shorthand: one- and two-measure
// repeats, slash symbols and oval placeholders.
package measure

import (
	"regexp"
	"strings"

	"github.com/jsphweid/chartdex/expand"
	"github.com/jsphweid/chartdex/model"
	"github.com/jsphweid/chartdex/util"
)

var (
	barSplitRe  = regexp.MustCompile(`\||LZ|K|Z|\{|\}|\[|\]`)
	barRepeatRe = regexp.MustCompile(`[rx]`)
	noChordRe   = regexp.MustCompile(`n`)
	strayEndRe  = regexp.MustCompile(`N\d`)
	residualRe  = regexp.MustCompile(`[US]`)

	// a chord token: root letter (or no-chord 'n'), anything that isn't a new
	// root, optional slash bass
	chordRe = regexp.MustCompile(`[A-Gn][^A-G/]*(?:/[A-G][#b]?)?`)
)

// Split cuts the repeat-free, coda-free string on every bar-line variant.
// Empty fragments are dropped, except the one right after a two-measure
// repeat: that slot is reserved and filled later.
func Split(s string, diags *model.Diagnostics) ([]string, error) {
	fragments := barSplitRe.Split(s, -1)
	var measures []string
	for i, fragment := range fragments {
		trimmed := strings.TrimSpace(strings.ReplaceAll(fragment, "U", ""))
		if trimmed == "" {
			if i > 0 && strings.TrimSpace(fragments[i-1]) == "r" {
				measures = append(measures, "")
			}
			continue
		}
		measures = append(measures, trimmed)
	}
	return measures, nil
}

// FillBarRepeats resolves 'x' (repeat previous measure) and 'r' (repeat the
// previous two). Every 'r' consumes one reserved empty measure right after
// it; a non-empty one there breaks the invariant and fails the chart.
func FillBarRepeats(measures []string, diags *model.Diagnostics) ([]string, error) {
	// markers can arrive glued to chord content; explode them into
	// standalone measures first. Reserved empty slots pass through.
	var pre []string
	for _, m := range measures {
		if strings.TrimSpace(m) == "" {
			pre = append(pre, "")
			continue
		}
		splits := barRepeatRe.Split(m, -1)
		markers := barRepeatRe.FindAllString(m, -1)
		for i, split := range splits {
			if trimmed := strings.TrimSpace(split); trimmed != "" {
				pre = append(pre, trimmed)
			}
			if i < len(markers) {
				pre = append(pre, markers[i])
			}
		}
	}

	// an 'r' that closes the chart still spans two bars; give it its slot
	var out []string
	for i, m := range pre {
		out = append(out, m)
		if m == "r" && i+1 == len(pre) {
			out = append(out, "")
		}
	}

	for i := 0; i < len(out); i++ {
		switch out[i] {
		case "x":
			if i == 0 {
				return nil, model.Inconsistentf("one-measure repeat with no measure before it")
			}
			out[i] = expand.RemoveMarkers(out[i-1])
		case "r":
			if i < 2 {
				return nil, model.Inconsistentf("two-measure repeat with fewer than two measures before it")
			}
			out[i] = expand.RemoveMarkers(out[i-2])
			if strings.TrimSpace(out[i+1]) != "" {
				return nil, model.Inconsistentf("non-empty measure after a two-measure repeat: %q", out[i+1])
			}
			out[i+1] = expand.RemoveMarkers(out[i-1])
		}
	}
	return out, nil
}

// FillSlashes replaces every slash symbol ('p') with the nearest chord
// before it, looking back into the previous measure when the slash opens
// the measure.
func FillSlashes(measures []string, diags *model.Diagnostics) ([]string, error) {
	out := make([]string, len(measures))
	copy(out, measures)

	for i := range out {
		for guard := 0; guard < 1024; guard++ {
			slash := strings.Index(out[i], "p")
			if slash == -1 {
				break
			}
			if slash == 0 {
				if i == 0 {
					return nil, model.Inconsistentf("slash symbol opens the first measure")
				}
				prev := chordTokens(out[i-1])
				if len(prev) == 0 {
					return nil, model.Inconsistentf("slash symbol has no chord to repeat in %q", out[i-1])
				}
				out[i] = prev[len(prev)-1] + " " + out[i][1:]
				continue
			}
			prior := chordTokens(out[i][:slash])
			if len(prior) == 0 {
				return nil, model.Inconsistentf("slash symbol has no chord before it in %q", out[i])
			}
			out[i] = out[i][:slash] + prior[len(prior)-1] + " " + out[i][slash+1:]
		}
	}
	return out, nil
}

// Clean normalizes no-chord symbols, fills oval placeholders with the most
// recent chord root, and strips whatever residue malformed charts leave
// behind.
func Clean(measures []string, diags *model.Diagnostics) ([]string, error) {
	out := make([]string, len(measures))
	copy(out, measures)

	// no-chord symbols get padded and capitalized
	for i := range out {
		out[i] = util.ReplacePadded(out[i], noChordRe, "N")
	}

	// ovals inherit the root of the last chord seen, carrying across measures
	lastRoot := ""
	for i := range out {
		for _, token := range strings.Fields(out[i]) {
			if root := chordPrefix(token); root != "" {
				lastRoot = strings.SplitN(root, "/", 2)[0]
				continue
			}
			if strings.Contains(token, "W") {
				if lastRoot == "" {
					return nil, model.Inconsistentf("oval chord with no root to inherit")
				}
				out[i] = strings.Replace(out[i], "W", lastRoot, 1)
			}
		}
	}

	for i := range out {
		m := residualRe.ReplaceAllString(out[i], "")
		if stray := strayEndRe.FindString(m); stray != "" {
			diags.Warnf("measures", "removing unhandled repeat marker %q", stray)
			m = strayEndRe.ReplaceAllString(m, "")
		}
		out[i] = util.SquashSpaces(m)
	}
	return out, nil
}

// chordTokens returns the chord matches in s, skipping bass notes (a match
// right after a slash belongs to the chord before it).
func chordTokens(s string) []string {
	var res []string
	for _, loc := range chordRe.FindAllStringIndex(s, -1) {
		if loc[0] > 0 && s[loc[0]-1] == '/' {
			continue
		}
		res = append(res, s[loc[0]:loc[1]])
	}
	return res
}

// chordPrefix reports the chord match anchored at the start of token, or "".
func chordPrefix(token string) string {
	loc := chordRe.FindStringIndex(token)
	if loc == nil || loc[0] != 0 {
		return ""
	}
	return token[:loc[1]]
}
