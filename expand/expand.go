// Package expand rewrites an encoded chord string, stage by stage, into a
// linear form with no repeat brackets, numbered endings, codas or segnos
// left in it. Stages are pure: string in, string out, warnings into the
// per-decode diagnostics.
package expand

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jsphweid/chartdex/constants"
	"github.com/jsphweid/chartdex/model"
	"github.com/jsphweid/chartdex/util"
)

var (
	barAliasRe      = regexp.MustCompile(`LZ|K`)
	starPairRe      = regexp.MustCompile(`\*\s*\*`)
	vspacerRe       = regexp.MustCompile(`Y+`)
	fillerRe        = regexp.MustCompile(`XyQ|,`)
	emptyBarRe      = regexp.MustCompile(`\|\s*\|`)
	ovalUnitRe      = regexp.MustCompile(`W(?:/[A-G][#b]?)?`)
	barSpaceRe      = regexp.MustCompile(`\|\s+`)
	spaceRe         = regexp.MustCompile(`\s+`)
	squareBarRe     = regexp.MustCompile(`[\[\]]`)
	commentRe       = regexp.MustCompile(`<[^>]*>`)
	countedOnlyRe   = regexp.MustCompile(`^<\d+x>$`)
	altChordRe      = regexp.MustCompile(`\([^)]*\)`)
	fermataRe       = regexp.MustCompile(`[lf]`)
	sectionRe       = regexp.MustCompile(`\*\w`)
	inlineTimeSigRe = regexp.MustCompile(`T\d+`)

	repeatGroupRe = regexp.MustCompile(`\{(.+?)\}`)
	macroRepeatRe = regexp.MustCompile(`\{.+?N\d.+?\}`)
	endingNumRe   = regexp.MustCompile(`N\d`)
	firstEndingRe = regexp.MustCompile(`([^N]+)N\d`)
	repeatCountRe = regexp.MustCompile(`<(\d+)x>`)
	endingMarkRe  = regexp.MustCompile(`([{\[|]?)\s*N(\d)`)
	codaSegnoRe   = regexp.MustCompile(`[QS]`)
	markersRe     = regexp.MustCompile(`\*\w|<.*?>|N\d|[{}\[\]SQU]`)
)

// Cleanup unifies bar-line and repeat-symbol spellings, strips decorative
// filler, collapses empty measures and normalizes whitespace. No semantic
// branching, symbol classes only.
func Cleanup(s string, diags *model.Diagnostics) (string, error) {
	s = barAliasRe.ReplaceAllString(s, "|")
	s = strings.ReplaceAll(s, "cl", "x")
	s = starPairRe.ReplaceAllString(s, "")
	s = vspacerRe.ReplaceAllString(s, "")
	s = fillerRe.ReplaceAllString(s, " ")
	s = collapseEmptyBars(s)
	s = strings.ReplaceAll(s, "Z", "")
	// an oval plus its optional bass is one unit; isolate it for the
	// root-inheritance pass later on
	s = util.PadSubstring(s, ovalUnitRe)
	s = barSpaceRe.ReplaceAllString(s, "|")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimRight(s, " "), nil
}

// ReconcileBrackets evens out implicit repeat brackets. When a close bracket
// shows up before any open one, a leading '{' is assumed missing and
// inserted. A missing '}' is never inserted.
func ReconcileBrackets(s string, diags *model.Diagnostics) (string, error) {
	opens, closes := strings.Count(s, "{"), strings.Count(s, "}")
	if opens != closes {
		diags.Warnf("brackets", "uneven repeat brackets: %v open vs %v close", opens, closes)
	}
	openLoc, closeLoc := strings.Index(s, "{"), strings.Index(s, "}")
	if closeLoc > -1 && (openLoc == -1 || openLoc > closeLoc) {
		diags.Warnf("brackets", "inserting leading '{' to compensate")
		s = "{" + s
	}
	return s, nil
}

// StripAnnotations removes constructs the decoder doesn't model: section
// markers, alternative chords, inline time signatures, fermatas, font
// markers and free-text comments. Explicit repeat counts like <3x> survive
// because the repeat engine consumes them.
func StripAnnotations(s string, diags *model.Diagnostics) (string, error) {
	s = squareBarRe.ReplaceAllString(s, "|")
	s = collapseEmptyBars(s)
	s = commentRe.ReplaceAllStringFunc(s, func(c string) string {
		if countedOnlyRe.MatchString(c) {
			return c
		}
		return ""
	})
	// alternative chords may be glued to real ones, so leave a space
	s = altChordRe.ReplaceAllString(s, " ")
	s = fermataRe.ReplaceAllString(s, "")
	s = stripSmallMarker(s)
	s = sectionRe.ReplaceAllString(s, "")
	s = inlineTimeSigRe.ReplaceAllString(s, "")
	return s, nil
}

// stripSmallMarker drops the lowercase 's' ("small" font marker) unless it
// belongs to a sus chord quality: preceded by "su" or followed by "us".
func stripSmallMarker(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != 's' {
			b.WriteByte(s[i])
			continue
		}
		if i >= 2 && s[i-2:i] == "su" {
			b.WriteByte('s')
			continue
		}
		if i+3 <= len(s) && s[i+1:i+3] == "us" {
			b.WriteByte('s')
		}
	}
	return b.String()
}

// FillRepeats unrolls one leftmost repeat group per pass until none remain.
// Groups with numbered endings splice the shared pre-ending content in
// before every later ending of the same logical repeat; plain bracketed
// groups play twice unless an explicit <Nx> count says otherwise.
func FillRepeats(s string, diags *model.Diagnostics) (string, error) {
	for pass := 0; pass < constants.MaxRepeatPasses; pass++ {
		m := repeatGroupRe.FindStringSubmatchIndex(s)
		if m == nil {
			if strings.ContainsAny(s, "{}") {
				return "", model.Formatf("unmatched repeat bracket left after expansion")
			}
			return s, nil
		}
		full := s[m[2]:m[3]]
		var err error
		if endingNumRe.MatchString(full) {
			s, err = expandNumberedEndings(s, m, full)
		} else {
			s, err = expandCountedBracket(s, m, full)
		}
		if err != nil {
			return "", err
		}
	}
	return "", model.Formatf("repeat expansion did not converge after %v passes", constants.MaxRepeatPasses)
}

func expandNumberedEndings(s string, m []int, full string) (string, error) {
	macros := macroRepeatRe.FindAllStringIndex(s, -1)
	if len(macros) == 0 {
		return "", model.Formatf("ending marker outside a well-formed repeat group")
	}
	bound := len(s)
	if len(macros) > 1 {
		bound = macros[1][0]
	}
	if macros[0][0] >= bound {
		return "", model.Inconsistentf(
			"macro repeat starts at %v, next boundary already at %v", macros[0][0], bound)
	}

	// first pass plays the group as written, minus the numbering
	firstRepeat := endingNumRe.ReplaceAllString(full, "")
	out := mjoin(s[:m[0]], firstRepeat, s[m[1]:])

	// the shared content every later ending re-plays
	fe := firstEndingRe.FindStringSubmatch(full)
	if fe == nil {
		return "", model.Formatf("repeat group starts with an ending marker: %q", full)
	}
	repeat := RemoveMarkers(fe[1])

	// endings past the start of the next macro repeat belong to it, not us
	bound = len(out)
	if next := macroRepeatRe.FindStringIndex(out); next != nil {
		bound = next[0]
	}

	var b strings.Builder
	last := 0
	for _, loc := range endingMarkRe.FindAllStringSubmatchIndex(out, -1) {
		if loc[0] >= bound {
			break
		}
		b.WriteString(out[last:loc[0]])
		b.WriteString(out[loc[2]:loc[3]]) // keep the leading separator, if any
		b.WriteString(repeat)
		last = loc[1]
	}
	b.WriteString(out[last:])
	return b.String(), nil
}

func expandCountedBracket(s string, m []int, full string) (string, error) {
	toRepeat, times := full, 2
	counts := repeatCountRe.FindAllStringSubmatchIndex(full, -1)
	if len(counts) > 0 { // explicit count wins; the last marker is the one used
		last := counts[len(counts)-1]
		n, err := strconv.Atoi(full[last[2]:last[3]])
		if err != nil {
			return "", model.Formatf("implausible repeat count %q", full[last[2]:last[3]])
		}
		times = n
		toRepeat = full[:last[0]] + full[last[1]:]
		toRepeat = strings.ReplaceAll(toRepeat, "  ", " ")
	}
	if times > 1000 {
		return "", model.Formatf("implausible repeat count %v", times)
	}
	if times < 1 {
		times = 1
	}
	repetitions := strings.Repeat(" |"+RemoveMarkers(toRepeat), times-1)
	return mjoin(s[:m[0]], toRepeat, repetitions, s[m[1]:]), nil
}

// FillCodas flattens "play to the first coda mark, jump to the second" into
// a linear string. One mark alone is an outro marker and simply dropped.
func FillCodas(s string, diags *model.Diagnostics) (string, error) {
	switch qs := strings.Count(s, "Q"); {
	case qs > 2:
		return "", model.Formatf(
			"unsupported chart structure: expected 0, 1 or 2 coda marks, found %v", qs)
	case qs == 1:
		return strings.Replace(s, "Q", "", 1), nil
	case qs == 2:
		q1 := strings.Index(s, "Q")
		q2 := strings.Index(s[q1+1:], "Q") + q1 + 1
		head := 0 // repeat from the top unless a segno says otherwise
		if segno := strings.Index(s, "S"); segno != -1 {
			head = segno + 1
			if head > q1 { // a segno past the first mark repeats nothing
				head = q1
			}
		}
		coda := s[q2+1:]
		repeat := s[head:q1]
		out := s[:q2] + repeat + " |" + coda
		return codaSegnoRe.ReplaceAllString(out, ""), nil
	}
	return s, nil
}

// RemoveMarkers strips structural markers (brackets, numbered endings,
// codas, segnos, section markers, comments) from content that is about to
// be replayed, keeping bar lines and chords intact.
func RemoveMarkers(s string) string {
	return markersRe.ReplaceAllString(s, "")
}

// mjoin joins chord fragments, inserting a bar separator between neighbors
// only when neither side already supplies one. Blank fragments are skipped.
func mjoin(fragments ...string) string {
	var parts []string
	for _, f := range fragments {
		if strings.TrimSpace(f) != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	merged := parts[0]
	for _, next := range parts[1:] {
		left := strings.TrimRight(merged, " \t\n")
		right := strings.TrimLeft(next, " \t\n")
		sep := ""
		if left[len(left)-1] != '|' && right[0] != '|' {
			sep = "|"
		}
		merged += sep + next
	}
	return merged
}

func collapseEmptyBars(s string) string {
	for i := 0; i < 1024; i++ {
		next := emptyBarRe.ReplaceAllString(s, "|")
		if next == s {
			return s
		}
		s = next
	}
	return s
}
