package util

import (
	"os"
	"regexp"
	"strings"
)

var spacesRe = regexp.MustCompile(`\s+`)

// SquashSpaces collapses runs of whitespace into single spaces and trims.
func SquashSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

const maxPadPasses = 1024

// PadSubstring surrounds every match of re with single spaces, so nested or
// concatenated annotations end up as standalone tokens. Matches already
// isolated by whitespace (or string boundaries) are left alone, which keeps
// repeated application a no-op.
func PadSubstring(s string, re *regexp.Regexp) string {
	for i := 0; i < maxPadPasses; i++ {
		loc := findUnpadded(s, re)
		if loc == nil {
			return s
		}
		s = s[:loc[0]] + " " + s[loc[0]:loc[1]] + " " + s[loc[1]:]
	}
	return s
}

// ReplacePadded swaps every match of re for repl, padded with spaces on both
// sides.
func ReplacePadded(s string, re *regexp.Regexp, repl string) string {
	return re.ReplaceAllString(s, " "+repl+" ")
}

func findUnpadded(s string, re *regexp.Regexp) []int {
	offset := 0
	for offset <= len(s) {
		loc := re.FindStringIndex(s[offset:])
		if loc == nil {
			return nil
		}
		start, end := offset+loc[0], offset+loc[1]
		if padded(s, start, end) {
			if end == start { // an empty match can't advance
				return nil
			}
			offset = end
			continue
		}
		return []int{start, end}
	}
	return nil
}

func padded(s string, start, end int) bool {
	leftOK := start == 0 || s[start-1] == ' '
	rightOK := end == len(s) || s[end] == ' '
	return leftOK && rightOK
}

func CreateDir(path string) string {
	if err := os.MkdirAll(path, 0777); err != nil {
		panic("Could not create dir: " + err.Error())
	}
	return path
}
