package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquashSpaces(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("C F |G C", SquashSpaces("  C F   |G \t C "))
	assert.Equal("", SquashSpaces("   "))
}

func TestPadSubstring(t *testing.T) {
	assert := assert.New(t)
	re := regexp.MustCompile(`W(?:/[A-G])?`)

	assert.Equal("C W D", PadSubstring("CWD", re))
	assert.Equal("C W/C D", PadSubstring("CW/CD", re))
	assert.Equal("no match", PadSubstring("no match", re))
}

func TestPadSubstringIsIdempotent(t *testing.T) {
	assert := assert.New(t)
	re := regexp.MustCompile(`W`)

	once := PadSubstring("CWD W", re)
	assert.Equal(once, PadSubstring(once, re))
}

func TestReplacePadded(t *testing.T) {
	assert := assert.New(t)
	re := regexp.MustCompile(`n`)

	assert.Equal(" N ", ReplacePadded("n", re, "N"))
	assert.Equal("C  N  D", ReplacePadded("C n D", re, "N"))
}
